package model

import "sort"

// Sample is a single cloud coverage observation.
type Sample struct {
	Date  int64   // seconds since the reference epoch of the store
	Value float64 // fraction of the sky covered, in eighths
}

// TimeSeries holds samples ordered by date. It is never mutated after
// construction; reloading builds a new series.
type TimeSeries struct {
	dates  []int64
	values []float64
}

// NewTimeSeries copies samples and sorts them by ascending date. Samples
// sharing a date keep their input order.
func NewTimeSeries(samples []Sample) *TimeSeries {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	ts := &TimeSeries{
		dates:  make([]int64, len(sorted)),
		values: make([]float64, len(sorted)),
	}
	for i, s := range sorted {
		ts.dates[i] = s.Date
		ts.values[i] = s.Value
	}
	return ts
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.dates)
}

// At returns the i-th sample in date order.
func (ts *TimeSeries) At(i int) Sample {
	return Sample{Date: ts.dates[i], Value: ts.values[i]}
}

// Dates returns a copy of the sorted dates.
func (ts *TimeSeries) Dates() []int64 {
	out := make([]int64, ts.Len())
	if ts != nil {
		copy(out, ts.dates)
	}
	return out
}

// Values returns a copy of the values in date order.
func (ts *TimeSeries) Values() []float64 {
	out := make([]float64, ts.Len())
	if ts != nil {
		copy(out, ts.values)
	}
	return out
}

// MinTime is the date of the first sample, zero for an empty series.
func (ts *TimeSeries) MinTime() int64 {
	if ts.Len() == 0 {
		return 0
	}
	return ts.dates[0]
}

// MaxTime is the date of the last sample, zero for an empty series.
func (ts *TimeSeries) MaxTime() int64 {
	if ts.Len() == 0 {
		return 0
	}
	return ts.dates[len(ts.dates)-1]
}

// TimeRange is MaxTime - MinTime.
func (ts *TimeSeries) TimeRange() int64 {
	return ts.MaxTime() - ts.MinTime()
}

// SearchRight returns the index of the first date strictly greater than d.
func (ts *TimeSeries) SearchRight(d int64) int {
	return sort.Search(ts.Len(), func(i int) bool { return ts.dates[i] > d })
}
