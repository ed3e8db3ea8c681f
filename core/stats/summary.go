// Package stats summarises a loaded cloud time series.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/skycloud/core/model"
)

// Summary describes the samples of a series.
type Summary struct {
	Count   int     `json:"count"`
	MinTime int64   `json:"min_time"`
	MaxTime int64   `json:"max_time"`
	Span    int64   `json:"span_seconds"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	// Eighths counts samples per sky-coverage octa (0/8 .. 8/8), rounding
	// each value to the closest eighth.
	Eighths [9]int `json:"eighths"`
}

// Summarize computes a Summary of ts. An empty series yields a zero Summary.
func Summarize(ts *model.TimeSeries) Summary {
	n := ts.Len()
	if n == 0 {
		return Summary{}
	}
	values := ts.Values()
	s := Summary{
		Count:   n,
		MinTime: ts.MinTime(),
		MaxTime: ts.MaxTime(),
		Span:    ts.TimeRange(),
		Min:     floats.Min(values),
		Max:     floats.Max(values),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if n == 1 {
		s.StdDev = 0
	}
	for _, v := range values {
		s.Eighths[octa(v)]++
	}
	return s
}

func octa(v float64) int {
	o := int(math.Round(v * 8))
	if o < 0 {
		return 0
	}
	if o > 8 {
		return 8
	}
	return o
}
