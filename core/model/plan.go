package model

import "time"

// Plan is a recurring availability template. Start and End bound the period
// the plan is active in and, through their time of day, the daily window.
type Plan struct {
	ID           string
	DivisionID   string
	CategoryType string
	Start        time.Time
	End          time.Time
	Capacity     int // max bookings per day; unset when <= 0
	Increment    int // booking length in minutes; unset when <= 0
	SchedDaysReq int // lead time in business days
	Days         WeekdaySet
}

// HasCapacity reports whether a fixed capacity is configured.
func (p Plan) HasCapacity() bool { return p.Capacity > 0 }

// HasIncrement reports whether an increment is configured.
func (p Plan) HasIncrement() bool { return p.Increment > 0 }

// IncrementDuration returns the increment as a time.Duration.
func (p Plan) IncrementDuration() time.Duration {
	return time.Duration(p.Increment) * time.Minute
}

// Event is a booking made against a plan.
type Event struct {
	ID         string
	PlanID     string
	Start      time.Time
	End        time.Time // zero when the booking has no tracked end
	StatusType string
}

// Duration returns End-Start, or zero when either end is undefined.
func (e Event) Duration() time.Duration {
	if e.Start.IsZero() || e.End.IsZero() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// BlockPlan is a blackout rule removing part of a plan's window.
// An empty Days set applies to every day of the week.
type BlockPlan struct {
	ID         string
	DivisionID string
	RelatedID  string
	Start      time.Time
	End        time.Time
	Days       WeekdaySet
}

// Slot is one bookable (plan, date) pair.
type Slot struct {
	Date      Date
	Start     time.Time
	End       time.Time
	Plan      Plan
	Events    []Event
	Available bool
}
