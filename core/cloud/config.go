package cloud

import (
	"fmt"
	"strings"

	"github.com/kilianp07/skycloud/core/factory"
)

// Default column names.
const (
	DefaultCloudColumn = "cloud"
	DefaultAltColumn   = "altitude"
	DefaultAzColumn    = "azimuth"
)

// ConfigBuilder holds the mutable, decodable form of the model settings.
// Build validates it and produces a frozen Config.
type ConfigBuilder struct {
	// EFDColumns lists the telemetry columns required upstream. The first
	// entry names the cloud coverage value.
	EFDColumns []string `json:"efd_columns"`
	// EFDDeltaTime is the length of history to request, in seconds.
	EFDDeltaTime float64 `json:"efd_delta_time"`
	// TargetColumns lists the map columns read by ComputeMap. The first
	// entry sizes the broadcast output.
	TargetColumns []string `json:"target_columns"`
	// ModelKeys are the output keys of a computed cloud map.
	ModelKeys []string `json:"model_keys"`
}

// SetDefaults fills unset fields.
func (b *ConfigBuilder) SetDefaults() {
	if len(b.EFDColumns) == 0 {
		b.EFDColumns = []string{DefaultCloudColumn}
	}
	if len(b.TargetColumns) == 0 {
		b.TargetColumns = []string{DefaultAltColumn, DefaultAzColumn}
	}
	if len(b.ModelKeys) == 0 {
		b.ModelKeys = []string{DefaultCloudColumn}
	}
}

// Validate checks the builder without applying defaults.
func (b ConfigBuilder) Validate() error {
	if err := validateNames("efd_columns", b.EFDColumns); err != nil {
		return err
	}
	if b.EFDDeltaTime < 0 {
		return fmt.Errorf("efd_delta_time must be >= 0, got %v", b.EFDDeltaTime)
	}
	if err := validateNames("target_columns", b.TargetColumns); err != nil {
		return err
	}
	return validateNames("model_keys", b.ModelKeys)
}

func validateNames(field string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%s[%d] is blank", field, i)
		}
	}
	return nil
}

// Build applies defaults, validates and freezes the configuration. The
// builder itself is left untouched.
func (b ConfigBuilder) Build() (Config, error) {
	b.EFDColumns = cloneStrings(b.EFDColumns)
	b.TargetColumns = cloneStrings(b.TargetColumns)
	b.ModelKeys = cloneStrings(b.ModelKeys)
	b.SetDefaults()
	if err := b.Validate(); err != nil {
		return Config{}, fmt.Errorf("cloud config: %w", err)
	}
	return Config{
		efdColumns:    b.EFDColumns,
		efdDeltaTime:  b.EFDDeltaTime,
		targetColumns: b.TargetColumns,
		modelKeys:     b.ModelKeys,
		built:         true,
	}, nil
}

// Config is the frozen model configuration. Its zero value is not usable;
// obtain one from ConfigBuilder.Build or DefaultConfig.
type Config struct {
	efdColumns    []string
	efdDeltaTime  float64
	targetColumns []string
	modelKeys     []string
	built         bool
}

// DefaultConfig returns the frozen default configuration.
func DefaultConfig() Config {
	cfg, _ := ConfigBuilder{}.Build()
	return cfg
}

// Valid reports whether c was produced by Build.
func (c Config) Valid() bool { return c.built }

func (c Config) EFDColumns() []string    { return cloneStrings(c.efdColumns) }
func (c Config) EFDDeltaTime() float64   { return c.efdDeltaTime }
func (c Config) TargetColumns() []string { return cloneStrings(c.targetColumns) }
func (c Config) ModelKeys() []string     { return cloneStrings(c.modelKeys) }

// CloudColumn is the telemetry column holding the coverage value.
func (c Config) CloudColumn() string { return c.efdColumns[0] }

// Builder returns a mutable copy of c.
func (c Config) Builder() ConfigBuilder {
	return ConfigBuilder{
		EFDColumns:    c.EFDColumns(),
		EFDDeltaTime:  c.efdDeltaTime,
		TargetColumns: c.TargetColumns(),
		ModelKeys:     c.ModelKeys(),
	}
}

// ConfigFrom converts v into a frozen Config. It accepts nil (defaults), a
// Config, a ConfigBuilder (or pointers to either) and raw settings as
// decoded from a configuration file. Any other type fails with
// ErrConfigType.
func ConfigFrom(v any) (Config, error) {
	switch c := v.(type) {
	case nil:
		return DefaultConfig(), nil
	case Config:
		if !c.built {
			return Config{}, fmt.Errorf("%w: unbuilt Config", ErrConfigType)
		}
		return c, nil
	case *Config:
		if c == nil {
			return DefaultConfig(), nil
		}
		return ConfigFrom(*c)
	case ConfigBuilder:
		return c.Build()
	case *ConfigBuilder:
		if c == nil {
			return DefaultConfig(), nil
		}
		return c.Build()
	case map[string]any:
		var b ConfigBuilder
		if err := factory.Decode(c, &b); err != nil {
			return Config{}, fmt.Errorf("cloud config: %w", err)
		}
		return b.Build()
	default:
		return Config{}, fmt.Errorf("%w: got %T", ErrConfigType, v)
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
