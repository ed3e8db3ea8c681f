package config

import (
	"fmt"
	"time"
)

// PublishConfig controls the periodic MQTT broadcast of cloud coverage.
type PublishConfig struct {
	Enabled bool   `json:"enabled"`
	Topic   string `json:"topic"`
	// IntervalSeconds is the wall-clock period between messages.
	IntervalSeconds int `json:"interval_seconds"`
	// StepSeconds is the simulated time advanced per message.
	StepSeconds int64 `json:"step_seconds"`
	// MapSize is the number of positions in the broadcast map; 0 omits the map.
	MapSize int `json:"map_size"`
}

// SetDefaults applies sane defaults.
func (c *PublishConfig) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "skycloud/coverage"
	}
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = 10
	}
	if c.StepSeconds == 0 {
		c.StepSeconds = int64(c.IntervalSeconds)
	}
}

// Validate checks the publishing parameters.
func (c PublishConfig) Validate() error {
	if c.StepSeconds < 0 {
		return fmt.Errorf("publish: step_seconds must be >= 0")
	}
	if c.MapSize < 0 {
		return fmt.Errorf("publish: map_size must be >= 0")
	}
	return nil
}

// Interval returns the publishing period.
func (c PublishConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
