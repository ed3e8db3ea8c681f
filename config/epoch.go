package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/skycloud/core/cloud"
)

// EpochConfig locates the simulation start in time.
type EpochConfig struct {
	// Start is a date (2006-01-02) or an RFC3339 timestamp.
	Start string `json:"start"`
	// OffsetYear shifts Start forward by whole years.
	OffsetYear int `json:"offset_year"`
}

// SetDefaults applies sane defaults.
func (c *EpochConfig) SetDefaults() {
	if c.Start == "" {
		c.Start = "2020-01-01"
	}
}

// Validate checks that Start parses.
func (c EpochConfig) Validate() error {
	if _, err := cloud.ParseStart(c.Start); err != nil {
		return fmt.Errorf("epoch: %w", err)
	}
	if c.OffsetYear < 0 {
		return fmt.Errorf("epoch: offset_year must be >= 0")
	}
	return nil
}

// StartTime returns the parsed start date.
func (c EpochConfig) StartTime() (time.Time, error) {
	return cloud.ParseStart(c.Start)
}
