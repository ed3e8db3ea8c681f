package metrics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skycloud/core/factory"
	"github.com/kilianp07/skycloud/core/metrics"
)

type countRecorder struct {
	loads, resolves int
	err             error
}

func (c *countRecorder) RecordLoad(metrics.LoadEvent) error {
	c.loads++
	return c.err
}

func (c *countRecorder) RecordResolve(metrics.ResolveEvent) error {
	c.resolves++
	return c.err
}

func TestMultiRecorder(t *testing.T) {
	r1, r2 := &countRecorder{}, &countRecorder{}
	m := metrics.NewMultiRecorder(r1, r2)
	require.NoError(t, m.RecordLoad(metrics.LoadEvent{}))
	require.NoError(t, m.RecordResolve(metrics.ResolveEvent{}))
	assert.Equal(t, 1, r1.loads)
	assert.Equal(t, 1, r2.resolves)

	failing := &countRecorder{err: errors.New("down")}
	after := &countRecorder{}
	m = metrics.NewMultiRecorder(failing, after)
	assert.Error(t, m.RecordResolve(metrics.ResolveEvent{}))
	assert.Equal(t, 0, after.resolves)
}

func TestNewRecorder(t *testing.T) {
	r, err := metrics.NewRecorder(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopRecorder{}, r)

	require.NoError(t, metrics.RegisterRecorder("count-test", func(map[string]any) (metrics.Recorder, error) {
		return &countRecorder{}, nil
	}))
	r, err = metrics.NewRecorder([]factory.ModuleConfig{{Type: "count-test"}, {Type: "count-test"}})
	require.NoError(t, err)
	m, ok := r.(*metrics.MultiRecorder)
	require.True(t, ok)
	assert.Len(t, m.Recorders, 2)

	_, err = metrics.NewRecorder([]factory.ModuleConfig{{Type: "missing"}})
	assert.Error(t, err)
}

type closingRecorder struct {
	countRecorder
	closed bool
}

func (c *closingRecorder) Close() { c.closed = true }

func TestMultiRecorderClose(t *testing.T) {
	closing := &closingRecorder{}
	m := metrics.NewMultiRecorder(&countRecorder{}, closing)
	m.Close()
	assert.True(t, closing.closed)
}
