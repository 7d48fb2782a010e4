package availability

import (
	"time"

	"github.com/kilianp07/planavail/core/model"
)

// PolicyKind identifies how a plan's daily capacity is measured.
type PolicyKind int

const (
	// NoPolicy plans are never open.
	NoPolicy PolicyKind = iota
	// FixedCapacity plans accept a fixed number of bookings per day.
	FixedCapacity
	// IncrementDuration plans are open while one more increment fits in the window.
	IncrementDuration
	// TrialUnit plans are open while one more trial unit fits in the window.
	TrialUnit
)

func (k PolicyKind) String() string {
	switch k {
	case FixedCapacity:
		return "fixed_capacity"
	case IncrementDuration:
		return "increment_duration"
	case TrialUnit:
		return "trial_unit"
	default:
		return "none"
	}
}

// Policy is the capacity rule of a plan, resolved once per plan.
type Policy struct {
	Kind     PolicyKind
	Capacity int           // FixedCapacity only
	Unit     time.Duration // IncrementDuration and TrialUnit
}

// ResolvePolicy picks the first matching rule: capacity, then increment, then
// the trial unit for trial category plans. A plan with both capacity and
// increment is a FixedCapacity plan.
func ResolvePolicy(plan model.Plan, cfg Config) Policy {
	switch {
	case plan.HasCapacity():
		return Policy{Kind: FixedCapacity, Capacity: plan.Capacity}
	case plan.HasIncrement():
		return Policy{Kind: IncrementDuration, Unit: plan.IncrementDuration()}
	case plan.CategoryType == cfg.TrialCategory:
		return Policy{Kind: TrialUnit, Unit: cfg.TrialUnit()}
	default:
		return Policy{Kind: NoPolicy}
	}
}

// Usage is the occupancy of one plan window on one date.
type Usage struct {
	Window   time.Duration
	Bookings []model.Event
	Blocked  time.Duration
}

// Booked sums the durations of bookings with both ends defined.
func (u Usage) Booked() time.Duration {
	var d time.Duration
	for _, ev := range u.Bookings {
		d += ev.Duration()
	}
	return d
}

// Open reports whether the window can take one more booking.
// FixedCapacity ignores blacked out time; the duration policies count it as occupied.
func (p Policy) Open(u Usage) bool {
	switch p.Kind {
	case FixedCapacity:
		return p.Capacity > len(u.Bookings)
	case IncrementDuration, TrialUnit:
		return u.Booked()+p.Unit+u.Blocked <= u.Window
	default:
		return false
	}
}
