package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/skycloud/core/logger"
	"github.com/kilianp07/skycloud/core/metrics"
	"github.com/kilianp07/skycloud/core/model"
	"github.com/kilianp07/skycloud/core/monitoring"
)

// Resolver answers "coverage nearest to elapsed time" queries against a
// cloud time series treated as a repeating cycle.
//
// Queries may run concurrently once Load has returned. Load must not run
// concurrently with queries or with another Load.
type Resolver struct {
	start  time.Time
	offset int64
	source Source
	series *model.TimeSeries
	log    logger.Logger
	rec    metrics.Recorder
	now    func() time.Time
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.rec = rec
		}
	}
}

// NewResolver creates a resolver for a simulation starting at start, moved
// forward by offsetYear whole years. The epoch offset is computed once here.
// Nothing is read until Load is called.
func NewResolver(start time.Time, offsetYear int, src Source, opts ...Option) *Resolver {
	shifted := ShiftYears(start, offsetYear)
	r := &Resolver{
		start:  shifted,
		offset: EpochOffset(shifted),
		source: src,
		log:    logger.Nop{},
		rec:    metrics.NopRecorder{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start is the simulation start date after the year shift.
func (r *Resolver) Start() time.Time { return r.start }

// Offset is the number of seconds between the start of Start's year and Start.
func (r *Resolver) Offset() int64 { return r.offset }

// Series returns the loaded series, nil before Load.
func (r *Resolver) Series() *model.TimeSeries { return r.series }

// Loaded reports whether a series is available.
func (r *Resolver) Loaded() bool { return r.series != nil }

// Load reads the source and replaces the current series. An empty store is
// not an error; queries against it fail with ErrInsufficientData.
func (r *Resolver) Load(ctx context.Context) error {
	if r.source == nil {
		return NewDataSourceError("none", "load", fmt.Errorf("no source configured"))
	}
	name := r.source.Name()
	begin := r.now()
	r.log.Debugf("loading cloud data from %s", name)
	samples, err := r.source.Load(ctx)
	ev := metrics.LoadEvent{Source: name, Duration: r.now().Sub(begin), Time: begin}
	if err != nil {
		ev.Err = err
		r.record(ev)
		r.log.Errorf("load cloud data from %s: %v", name, err)
		monitoring.CaptureException(err, map[string]string{"source": name})
		return err
	}
	series := model.NewTimeSeries(samples)
	r.series = series
	ev.Samples = series.Len()
	ev.Span = series.TimeRange()
	r.record(ev)
	if series.Len() < 2 {
		r.log.Warnf("cloud data from %s has %d samples; lookups will fail", name, series.Len())
	} else {
		r.log.Infof("loaded %d cloud samples from %s spanning %d s", series.Len(), name, series.TimeRange())
	}
	return nil
}

// Resolve returns the coverage of the sample nearest to delta seconds after
// the simulation start. Elapsed times past the recorded span wrap around.
func (r *Resolver) Resolve(delta int64) (float64, error) {
	if r.series == nil {
		return 0, ErrNotLoaded
	}
	idx, query, err := nearest(r.series, delta, r.offset)
	if err != nil {
		return 0, err
	}
	value := r.series.At(idx).Value
	r.log.Debugw("cloud lookup", map[string]any{"delta": delta, "query_date": query, "index": idx, "coverage": value})
	if err := r.rec.RecordResolve(metrics.ResolveEvent{
		Delta: delta, QueryDate: query, Index: idx, Coverage: value, Time: r.now(),
	}); err != nil {
		r.log.Warnf("record resolve: %v", err)
	}
	return value, nil
}

// ResolveAt resolves the coverage at an absolute time, measured in whole
// seconds from Start.
func (r *Resolver) ResolveAt(t time.Time) (float64, error) {
	return r.Resolve(int64(t.Sub(r.start) / time.Second))
}

func (r *Resolver) record(ev metrics.LoadEvent) {
	if err := r.rec.RecordLoad(ev); err != nil {
		r.log.Warnf("record load: %v", err)
	}
}

// nearest wraps delta+offset into [min, min+range) and returns the index of
// the closest sample. Equidistant neighbours resolve to the later sample.
func nearest(ts *model.TimeSeries, delta, offset int64) (int, int64, error) {
	n := ts.Len()
	span := ts.TimeRange()
	if n < 2 || span <= 0 {
		return 0, 0, fmt.Errorf("%w: %d samples spanning %d s", ErrInsufficientData, n, span)
	}
	// Both terms are reduced before adding so the sum cannot overflow.
	query := floorMod(floorMod(delta, span)+floorMod(offset, span), span) + ts.MinTime()
	idx := ts.SearchRight(query)
	switch {
	case idx <= 0:
		return 0, query, nil
	case idx >= n:
		return n - 1, query, nil
	}
	left := query - ts.At(idx-1).Date
	right := ts.At(idx).Date - query
	if left < right {
		idx--
	}
	return idx, query, nil
}

func floorMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
