package calendar

import (
	"fmt"
	"time"

	"github.com/kilianp07/planavail/core/model"
)

// DefaultTimezone is the zone plan windows are expressed in unless configured otherwise.
const DefaultTimezone = "America/New_York"

// Calendar resolves civil dates and anchored instants in one fixed zone.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc. A nil loc means UTC.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Load returns a Calendar for the IANA zone name.
func Load(name string) (Calendar, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the calendar zone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOf returns the civil date of t in the calendar zone.
func (c Calendar) DateOf(t time.Time) model.Date {
	return model.DateIn(t, c.Location())
}

// Anchor combines date with the hour, minute, second and millisecond of
// timeOfDay, both read in the calendar zone. The result does not depend on
// the process zone or on the DST offset in effect at timeOfDay.
func (c Calendar) Anchor(date model.Date, timeOfDay time.Time) time.Time {
	loc := c.Location()
	tod := timeOfDay.In(loc)
	ms := tod.Nanosecond() / int(time.Millisecond)
	return time.Date(date.Year, date.Month, date.Day,
		tod.Hour(), tod.Minute(), tod.Second(), ms*int(time.Millisecond), loc)
}

// Window returns the plan window anchored to date.
func (c Calendar) Window(date model.Date, plan model.Plan) (start, end time.Time) {
	return c.Anchor(date, plan.Start), c.Anchor(date, plan.End)
}
