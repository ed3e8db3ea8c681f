package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/skycloud/core/model"
)

func TestSummarize(t *testing.T) {
	ts := model.NewTimeSeries([]model.Sample{
		{Date: 300, Value: 0.5},
		{Date: 100, Value: 0},
		{Date: 200, Value: 0.25},
		{Date: 400, Value: 0.25},
	})
	s := Summarize(ts)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, int64(100), s.MinTime)
	assert.Equal(t, int64(400), s.MaxTime)
	assert.Equal(t, int64(300), s.Span)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 0.5, s.Max)
	assert.InDelta(t, 0.25, s.Mean, 1e-12)
	assert.InDelta(t, 0.2041241, s.StdDev, 1e-6)
	assert.Equal(t, [9]int{1, 0, 2, 0, 1, 0, 0, 0, 0}, s.Eighths)
}

func TestSummarizeDegenerate(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	s := Summarize(model.NewTimeSeries([]model.Sample{{Date: 5, Value: 1.2}}))
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 1, s.Eighths[8])
}
