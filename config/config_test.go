package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `cloud:
  efd_columns: ["cloud"]
  efd_delta_time: 30
  target_columns: ["altitude", "azimuth"]
epoch:
  start: "2020-05-24"
  offset_year: 1
source:
  type: sqlite
  conf:
    path: /tmp/alt_cloud.db
metrics:
  sinks:
    - type: nop
server:
  address: ":9000"
  prometheus_address: ":9100"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "sky"
publish:
  enabled: true
  topic: "sky/cloud"
  interval_seconds: 5
  map_size: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"efd_delta_time", cfg.Cloud.EFDDeltaTime, 30.0},
		{"efd_column", cfg.Cloud.EFDColumns[0], "cloud"},
		{"model_keys default", cfg.Cloud.ModelKeys[0], "cloud"},
		{"epoch.start", cfg.Epoch.Start, "2020-05-24"},
		{"epoch.offset_year", cfg.Epoch.OffsetYear, 1},
		{"source.type", cfg.Source.Type, "sqlite"},
		{"source.path", cfg.Source.Conf["path"], "/tmp/alt_cloud.db"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"server.address", cfg.Server.Address, ":9000"},
		{"server.prometheus_address", cfg.Server.PrometheusAddress, ":9100"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"publish.topic", cfg.Publish.Topic, "sky/cloud"},
		{"publish.step default", cfg.Publish.StepSeconds, int64(5)},
		{"publish.map_size", cfg.Publish.MapSize, 10},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source.Type)
	assert.Equal(t, DefaultDBPath, cfg.Source.Conf["path"])
	assert.Equal(t, "2020-01-01", cfg.Epoch.Start)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, []string{"altitude", "azimuth"}, cfg.Cloud.TargetColumns)
	assert.Equal(t, "skycloud@dev", cfg.Sentry.Release)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_EPOCH__START", "2021-03-01")
	cfg, err := Load(writeConfig(t, "config.yaml", "epoch:\n  start: \"2020-01-01\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "2021-03-01", cfg.Epoch.Start)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeConfig(t, "config.yaml", "epoch:\n  start: yesterday\n"))
	assert.ErrorContains(t, err, "epoch")

	_, err = Load(writeConfig(t, "config.yaml", "cloud:\n  efd_delta_time: -5\n"))
	assert.ErrorContains(t, err, "efd_delta_time")

	_, err = Load(writeConfig(t, "config.yaml", "publish:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "mqtt.broker")

	_, err = Load(writeConfig(t, "config.yaml", "sentry:\n  traces_sample_rate: 1.5\n"))
	assert.ErrorContains(t, err, "traces_sample_rate")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
