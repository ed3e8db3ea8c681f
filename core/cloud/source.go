package cloud

import (
	"context"

	"github.com/kilianp07/skycloud/core/factory"
	"github.com/kilianp07/skycloud/core/model"
)

// Source reads every cloud sample from a backing store. Implementations
// return samples in storage order; the resolver sorts them.
type Source interface {
	// Name identifies the store in logs, metrics and errors.
	Name() string
	Load(ctx context.Context) ([]model.Sample, error)
}

var sourceRegistry = factory.NewRegistry[Source]()

// RegisterSource adds a Source factory identified by name.
func RegisterSource(name string, f factory.Factory[Source]) error {
	return sourceRegistry.Register(name, f)
}

// NewSource builds the Source described by cfg.
func NewSource(cfg factory.ModuleConfig) (Source, error) {
	return sourceRegistry.Create(cfg)
}

// StaticSource serves a fixed set of samples. It is mainly useful in tests
// and for callers that already hold the data in memory.
type StaticSource struct {
	Label   string
	Samples []model.Sample
}

// Name implements Source.
func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Load implements Source.
func (s StaticSource) Load(context.Context) ([]model.Sample, error) {
	out := make([]model.Sample, len(s.Samples))
	copy(out, s.Samples)
	return out, nil
}
