// Package blackout selects the blackout rules that apply to a plan on a given
// day and reduces them to a disjoint set of blocked intervals.
package blackout

import (
	"time"

	"github.com/kilianp07/planavail/core/calendar"
	"github.com/kilianp07/planavail/core/model"
)

// Day is the blackout picture of one plan window on one date.
type Day struct {
	Window    Interval
	Intervals []Interval // merged, sorted, clipped to Window
	Blocked   time.Duration
}

// FullyCovered reports whether a single merged interval spans the whole window.
func (d Day) FullyCovered() bool {
	for _, iv := range d.Intervals {
		if iv.Covers(d.Window.Start, d.Window.End) {
			return true
		}
	}
	return false
}

// Resolver anchors blackout rules with a calendar.
type Resolver struct {
	cal calendar.Calendar
}

// NewResolver returns a Resolver using cal for anchoring.
func NewResolver(cal calendar.Calendar) Resolver {
	return Resolver{cal: cal}
}

// Anchored returns rule's window on date.
func (r Resolver) Anchored(date model.Date, rule model.BlockPlan) Interval {
	return Interval{Start: r.cal.Anchor(date, rule.Start), End: r.cal.Anchor(date, rule.End)}
}

// Applies reports whether rule blacks out part of plan's window on date.
// The rule must target the plan's division and the plan itself, overlap the
// window once anchored to date, and either have no weekday restriction or
// include date's weekday. Rules missing a start or end never apply.
func (r Resolver) Applies(date model.Date, plan model.Plan, window Interval, rule model.BlockPlan) bool {
	if rule.Start.IsZero() || rule.End.IsZero() {
		return false
	}
	if rule.DivisionID != plan.DivisionID || rule.RelatedID != plan.ID {
		return false
	}
	if !rule.Days.Empty() && !rule.Days.Has(date.Weekday()) {
		return false
	}
	iv := r.Anchored(date, rule)
	return iv.Start.Before(window.End) && iv.End.After(window.Start)
}

// Resolve clips every applicable rule to [windowStart, windowEnd) and merges
// the results.
func (r Resolver) Resolve(date model.Date, plan model.Plan, windowStart, windowEnd time.Time, rules []model.BlockPlan) Day {
	window := Interval{Start: windowStart, End: windowEnd}
	var clipped []Interval
	for _, rule := range rules {
		if !r.Applies(date, plan, window, rule) {
			continue
		}
		if iv, ok := r.Anchored(date, rule).Clip(windowStart, windowEnd); ok {
			clipped = append(clipped, iv)
		}
	}
	merged := Merge(clipped)
	return Day{Window: window, Intervals: merged, Blocked: Total(merged)}
}
