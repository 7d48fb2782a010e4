package availability

import (
	"fmt"
	"time"

	"github.com/kilianp07/planavail/core/calendar"
)

// Config defines the evaluation parameters loaded from configuration.
type Config struct {
	// Timezone is the IANA zone plan windows and civil dates are read in.
	Timezone string `json:"timezone" yaml:"timezone"`
	// TrialCategory is the category type treated as a trial plan.
	TrialCategory string `json:"trial_category" yaml:"trial_category"`
	// TrialUnitMinutes is the booking length assumed for trial plans.
	TrialUnitMinutes int `json:"trial_unit_minutes" yaml:"trial_unit_minutes"`
	// CancelledStatus marks events that no longer occupy a plan.
	CancelledStatus string `json:"cancelled_status" yaml:"cancelled_status"`
	// MaxRangeDays caps the number of calendar days one request may span.
	MaxRangeDays int `json:"max_range_days" yaml:"max_range_days"`
}

// DefaultMaxRangeDays is the request span allowed when none is configured.
const DefaultMaxRangeDays = 731

// SetDefaults applies the defaults for unset fields.
func (c *Config) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = calendar.DefaultTimezone
	}
	if c.TrialCategory == "" {
		c.TrialCategory = "TR"
	}
	if c.TrialUnitMinutes == 0 {
		c.TrialUnitMinutes = 60
	}
	if c.CancelledStatus == "" {
		c.CancelledStatus = "CANCELLED"
	}
	if c.MaxRangeDays == 0 {
		c.MaxRangeDays = DefaultMaxRangeDays
	}
}

// Validate checks the timezone and the positive limits.
func (c Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	if c.TrialUnitMinutes <= 0 {
		return fmt.Errorf("calendar.trial_unit_minutes must be positive")
	}
	if c.MaxRangeDays <= 0 {
		return fmt.Errorf("calendar.max_range_days must be positive")
	}
	return nil
}

// TrialUnit returns the trial booking length.
func (c Config) TrialUnit() time.Duration {
	return time.Duration(c.TrialUnitMinutes) * time.Minute
}
