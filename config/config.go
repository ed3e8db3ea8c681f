package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/factory"
	"github.com/kilianp07/skycloud/core/metrics"
	"github.com/kilianp07/skycloud/infra/mqtt"
)

// DefaultDBPath is the bundled cloud database used when no source is configured.
const DefaultDBPath = "data/cloud.db"

type Config struct {
	Cloud   cloud.ConfigBuilder  `json:"cloud"`
	Epoch   EpochConfig          `json:"epoch"`
	Source  factory.ModuleConfig `json:"source"`
	Metrics metrics.Config       `json:"metrics"`
	Server  ServerConfig         `json:"server"`
	MQTT    mqtt.Config          `json:"mqtt"`
	Publish PublishConfig        `json:"publish"`
	Sentry  SentryConfig         `json:"sentry"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	c.Cloud.SetDefaults()
	c.Epoch.SetDefaults()
	if c.Source.Type == "" {
		c.Source.Type = "sqlite"
	}
	if c.Source.Type == "sqlite" {
		if c.Source.Conf == nil {
			c.Source.Conf = map[string]any{}
		}
		if p, _ := c.Source.Conf["path"].(string); p == "" {
			c.Source.Conf["path"] = DefaultDBPath
		}
	}
	c.Server.SetDefaults()
	c.Publish.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Cloud.Validate(); err != nil {
		return fmt.Errorf("cloud: %w", err)
	}
	if err := c.Epoch.Validate(); err != nil {
		return err
	}
	if err := c.Publish.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	if c.Publish.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("publish: mqtt.broker is required when publishing is enabled")
	}
	return nil
}

// Load reads a yaml or json file, applies K_ prefixed environment overrides
// (K_EPOCH__START=2021-03-01 sets epoch.start), then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
