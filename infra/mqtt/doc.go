// Package mqtt publishes resolved cloud coverage to an MQTT broker using
// Eclipse Paho. Messages are JSON encoded coremqtt.CoverageMessage values
// carrying a uuid identifier.
package mqtt
