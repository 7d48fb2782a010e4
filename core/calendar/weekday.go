package calendar

import (
	"time"

	"github.com/kilianp07/planavail/core/model"
)

// ResolveValidWeekdays returns the weekdays a plan recurs on. Plans without a
// usable daysOccurringType recur Monday to Friday.
func ResolveValidWeekdays(plan model.Plan) model.WeekdaySet {
	if plan.Days.Empty() {
		return model.Weekdays
	}
	return plan.Days
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d model.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StepToValidWeekday returns the first date on or after d whose weekday is in
// valid. ok is false when valid is empty.
func StepToValidWeekday(d model.Date, valid model.WeekdaySet) (model.Date, bool) {
	for i := 0; i < 7; i++ {
		if valid.Has(d.Weekday()) {
			return d, true
		}
		d = d.AddDays(1)
	}
	return d, false
}

// AdvanceBusinessDays returns the earliest date a booking made on d may use
// when n business days of lead time are required.
//
// For n <= 0 it is the first date on or after d that is a Monday-Friday
// member of valid. For n > 0 the date moves forward and only Monday-Friday
// days consume the count; the result is then stepped to a member of valid.
// ok is false when no date can satisfy valid.
func AdvanceBusinessDays(d model.Date, n int, valid model.WeekdaySet) (model.Date, bool) {
	if n <= 0 {
		for i := 0; i < 7; i++ {
			if !IsWeekend(d) && valid.Has(d.Weekday()) {
				return d, true
			}
			d = d.AddDays(1)
		}
		return d, false
	}
	// Every 7 days hold 5 business days. Whole weeks are skipped so that at
	// most five single steps remain.
	weeks := (n - 1) / 5
	d = d.AddDays(weeks * 7)
	for counted := weeks * 5; counted < n; {
		d = d.AddDays(1)
		if !IsWeekend(d) {
			counted++
		}
	}
	return StepToValidWeekday(d, valid)
}
