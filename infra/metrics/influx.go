package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/skycloud/core/metrics"
	"github.com/kilianp07/skycloud/infra/logger"
)

// InfluxRecorder writes cloud events to an InfluxDB instance. Load events
// are written synchronously; resolve events are batched in the background so
// lookups never wait on the network.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	asyncAPI api.WriteAPI
	log      logger.Logger
}

// NewInfluxRecorder creates a recorder for the given InfluxDB endpoint.
func NewInfluxRecorder(url, token, org, bucket string) *InfluxRecorder {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	rec := &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		asyncAPI: client.WriteAPI(org, bucket),
		log:      logger.New("influx-recorder"),
	}
	errs := rec.asyncAPI.Errors()
	go func() {
		for err := range errs {
			rec.log.Warnf("influx resolve write: %v", err)
		}
	}()
	return rec
}

// NewInfluxRecorderWithFallback pings the instance and returns a
// NopRecorder when the health check fails.
func NewInfluxRecorderWithFallback(url, token, org, bucket string) coremetrics.Recorder {
	rec := NewInfluxRecorder(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			rec.log.Errorf("influx health check error: %v", err)
		} else {
			rec.log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return coremetrics.NopRecorder{}
	}
	return rec
}

// RecordLoad writes a cloud_load point.
func (r *InfluxRecorder) RecordLoad(ev coremetrics.LoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("cloud_load").
		AddTag("source", ev.Source).
		AddTag("success", boolTag(ev.Err == nil)).
		AddField("samples", ev.Samples).
		AddField("span_s", ev.Span).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return r.writeAPI.WritePoint(ctx, p)
}

// RecordResolve queues a cloud_resolve point. Write failures are logged.
func (r *InfluxRecorder) RecordResolve(ev coremetrics.ResolveEvent) error {
	p := write.NewPointWithMeasurement("cloud_resolve").
		AddField("delta", ev.Delta).
		AddField("query_date", ev.QueryDate).
		AddField("coverage", round3(ev.Coverage)).
		SetTime(ev.Time)
	r.asyncAPI.WritePoint(p)
	return nil
}

// Flush sends queued resolve points.
func (r *InfluxRecorder) Flush() { r.asyncAPI.Flush() }

// Close flushes queued points and releases the client.
func (r *InfluxRecorder) Close() { r.client.Close() }

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
