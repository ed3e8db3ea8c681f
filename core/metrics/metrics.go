package metrics

import (
	"time"
)

// LoadEvent describes one load of a cloud time series.
type LoadEvent struct {
	Source   string
	Samples  int
	Span     int64 // seconds between first and last sample
	Duration time.Duration
	Err      error
	Time     time.Time
}

// ResolveEvent describes one nearest-sample lookup.
type ResolveEvent struct {
	Delta     int64 // elapsed seconds supplied by the caller
	QueryDate int64 // date after wraparound, in store seconds
	Index     int   // index of the selected sample
	Coverage  float64
	Time      time.Time
}

// Recorder receives cloud lookup telemetry.
type Recorder interface {
	RecordLoad(ev LoadEvent) error
	RecordResolve(ev ResolveEvent) error
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordLoad(LoadEvent) error       { return nil }
func (NopRecorder) RecordResolve(ResolveEvent) error { return nil }

// MultiRecorder fans events out to several recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordLoad forwards ev to every recorder, returning the first error.
func (m *MultiRecorder) RecordLoad(ev LoadEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordLoad(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordResolve forwards ev to every recorder, returning the first error.
func (m *MultiRecorder) RecordResolve(ev ResolveEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordResolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every recorder holding a client.
func (m *MultiRecorder) Close() {
	for _, r := range m.Recorders {
		if c, ok := r.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
