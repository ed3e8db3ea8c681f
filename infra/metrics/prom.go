package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/skycloud/core/metrics"
)

// PromRecorder exposes cloud loads and lookups as Prometheus metrics.
type PromRecorder struct {
	loads    *prometheus.CounterVec
	loadTime prometheus.Histogram
	samples  prometheus.Gauge
	resolves prometheus.Counter
	coverage prometheus.Gauge
}

// NewPromRecorder registers the metrics on the default registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers the metrics on reg. A nil reg
// defaults to the global registerer. Metrics already registered by an
// earlier recorder are reused.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	loads, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skycloud_series_loads_total",
		Help: "Number of cloud series loads by source and result",
	}, []string{"source", "result"}))
	if err != nil {
		return nil, err
	}
	loadTime, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skycloud_series_load_seconds",
		Help:    "Time spent reading the cloud series",
		Buckets: prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}
	samples, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skycloud_series_samples",
		Help: "Number of samples in the loaded cloud series",
	}))
	if err != nil {
		return nil, err
	}
	resolves, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skycloud_resolve_total",
		Help: "Number of cloud coverage lookups",
	}))
	if err != nil {
		return nil, err
	}
	coverage, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skycloud_coverage_fraction",
		Help: "Most recently resolved cloud coverage",
	}))
	if err != nil {
		return nil, err
	}
	return &PromRecorder{loads: loads, loadTime: loadTime, samples: samples, resolves: resolves, coverage: coverage}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordLoad implements coremetrics.Recorder.
func (p *PromRecorder) RecordLoad(ev coremetrics.LoadEvent) error {
	p.loads.WithLabelValues(ev.Source, strconv.FormatBool(ev.Err == nil)).Inc()
	p.loadTime.Observe(ev.Duration.Seconds())
	if ev.Err == nil {
		p.samples.Set(float64(ev.Samples))
	}
	return nil
}

// RecordResolve implements coremetrics.Recorder.
func (p *PromRecorder) RecordResolve(ev coremetrics.ResolveEvent) error {
	p.resolves.Inc()
	p.coverage.Set(ev.Coverage)
	return nil
}
