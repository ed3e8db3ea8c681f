// Package metrics defines the Recorder interface used to observe cloud
// series loads and coverage lookups. Concrete recorders (Prometheus,
// InfluxDB) live in infra/metrics and register themselves by type name; the
// factory helpers build a MultiRecorder when several are configured.
package metrics
