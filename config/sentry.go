package config

import (
	"fmt"

	"github.com/kilianp07/skycloud/core/cloud"
)

// SentryConfig enables reporting of cloud data load and MQTT publish
// failures. An empty DSN keeps reporting off.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	// Release defaults to skycloud@<build version>.
	Release string `json:"release"`
}

// SetDefaults fills the release from the build version.
func (c *SentryConfig) SetDefaults() {
	if c.Release == "" {
		c.Release = "skycloud@" + cloud.Version
	}
}

// Validate checks the sampling rate.
func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("sentry: traces_sample_rate must be within [0, 1], got %v", c.TracesSampleRate)
	}
	return nil
}
