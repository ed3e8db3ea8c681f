// Package infra groups the adapters behind the skycloud core interfaces:
// cloud sample sources (sqlite, InfluxDB), metrics recorders, the MQTT
// coverage publisher, Sentry monitoring and the zerolog logger.
package infra
