package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Model turns a coverage value into a cloud map over target positions.
// There is no spatial variation yet: every position receives the same value.
type Model struct {
	cfg Config
}

// NewModel creates a Model from a frozen configuration.
func NewModel(cfg Config) (*Model, error) {
	if !cfg.Valid() {
		return nil, fmt.Errorf("%w: configuration must be built before use", ErrConfigType)
	}
	return &Model{cfg: cfg}, nil
}

// Config returns the model configuration.
func (m *Model) Config() Config { return m.cfg }

// EFDRequirements returns the telemetry columns and history length (seconds)
// the model needs from upstream.
func (m *Model) EFDRequirements() ([]string, float64) {
	return m.cfg.EFDColumns(), m.cfg.EFDDeltaTime()
}

// MapRequirements returns the map columns read by ComputeMap.
func (m *Model) MapRequirements() []string { return m.cfg.TargetColumns() }

// Broadcast returns n copies of value.
func Broadcast(value float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	floats.AddConst(value, out)
	return out
}

// Compute broadcasts value over len(targets) positions under every model key.
func (m *Model) Compute(value float64, targets []float64) map[string][]float64 {
	out := make(map[string][]float64, len(m.cfg.modelKeys))
	for _, k := range m.cfg.modelKeys {
		out[k] = Broadcast(value, len(targets))
	}
	return out
}

// ComputeMap reads the coverage from efd under the configured cloud column
// and sizes the output after the first target column.
func (m *Model) ComputeMap(efd map[string]float64, targets map[string][]float64) (map[string][]float64, error) {
	col := m.cfg.CloudColumn()
	value, ok := efd[col]
	if !ok {
		return nil, fmt.Errorf("telemetry is missing column %q", col)
	}
	sizeCol := m.cfg.targetColumns[0]
	positions, ok := targets[sizeCol]
	if !ok {
		return nil, fmt.Errorf("target map is missing column %q", sizeCol)
	}
	return m.Compute(value, positions), nil
}

// Status reports version information and the configuration.
func (m *Model) Status() Status {
	return Status{
		{Key: "CloudModel_version", Value: Version},
		{Key: "CloudModel_sha", Value: Fingerprint},
		{Key: "efd_columns", Value: m.cfg.EFDColumns()},
		{Key: "efd_delta_time", Value: m.cfg.EFDDeltaTime()},
		{Key: "target_columns", Value: m.cfg.TargetColumns()},
		{Key: "model_keys", Value: m.cfg.ModelKeys()},
		{Key: "map_columns", Value: m.cfg.TargetColumns()},
	}
}

// StatusField is one key of a Status report.
type StatusField struct {
	Key   string
	Value any
}

// Status is an ordered set of report fields.
type Status []StatusField

// Get returns the value stored under key.
func (s Status) Get(key string) (any, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys lists the field names in order.
func (s Status) Keys() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Key
	}
	return out
}

// MarshalJSON encodes s as a JSON object preserving field order.
func (s Status) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("status field %s: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
