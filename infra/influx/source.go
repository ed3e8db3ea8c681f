package influx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/factory"
	"github.com/kilianp07/skycloud/core/model"
)

// Config selects the series read from InfluxDB.
type Config struct {
	URL         string `json:"url"`
	Token       string `json:"token"`
	Org         string `json:"org"`
	Bucket      string `json:"bucket"`
	Measurement string `json:"measurement"`
	Field       string `json:"field"`
	// Start and Stop bound the Flux range; defaults are the Unix epoch and now().
	Start          string `json:"start"`
	Stop           string `json:"stop"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Measurement == "" {
		c.Measurement = "cloud"
	}
	if c.Field == "" {
		c.Field = "cloud"
	}
	if c.Start == "" {
		c.Start = "1970-01-01T00:00:00Z"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("influx source: url is required")
	}
	if c.Org == "" || c.Bucket == "" {
		return fmt.Errorf("influx source: org and bucket are required")
	}
	return nil
}

// Source reads cloud samples from an InfluxDB v2 bucket. Sample dates are
// the point timestamps in Unix seconds.
type Source struct {
	cfg    Config
	client influxdb2.Client
}

// NewSource validates cfg and creates the client. No request is made until Load.
func NewSource(cfg Config) (*Source, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := influxdb2.NewClientWithOptions(strings.TrimSuffix(cfg.URL, "/"), cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}))
	return &Source{cfg: cfg, client: client}, nil
}

// Name implements cloud.Source.
func (s *Source) Name() string {
	return fmt.Sprintf("influx:%s/%s.%s", s.cfg.Bucket, s.cfg.Measurement, s.cfg.Field)
}

// Flux returns the query sent by Load.
func (s *Source) Flux() string {
	stop := "now()"
	if s.cfg.Stop != "" {
		stop = s.cfg.Stop
	}
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %q and r._field == %q)
  |> keep(columns: ["_time", "_value"])
  |> sort(columns: ["_time"])`, s.cfg.Bucket, s.cfg.Start, stop, s.cfg.Measurement, s.cfg.Field)
}

// Load runs the Flux query and converts every record into a sample.
func (s *Source) Load(ctx context.Context) ([]model.Sample, error) {
	res, err := s.client.QueryAPI(s.cfg.Org).Query(ctx, s.Flux())
	if err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "query", err)
	}
	defer func() { _ = res.Close() }()
	var out []model.Sample
	for res.Next() {
		rec := res.Record()
		v, err := toFloat(rec.Value())
		if err != nil {
			return nil, cloud.NewDataSourceError(s.Name(), "scan", err)
		}
		out = append(out, model.Sample{Date: rec.Time().Unix(), Value: v})
	}
	if err := res.Err(); err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "scan", err)
	}
	return out, nil
}

// Close releases the client.
func (s *Source) Close() { s.client.Close() }

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

func init() {
	_ = cloud.RegisterSource("influx", func(conf map[string]any) (cloud.Source, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSource(c)
	})
}
