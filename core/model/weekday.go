package model

import (
	"strings"
	"time"
)

// WeekdaySet is a set of weekdays indexed by time.Weekday (Sunday=0..Saturday=6).
type WeekdaySet uint8

// Weekdays is Monday through Friday, the default recurrence of a plan.
const Weekdays WeekdaySet = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday | 1<<time.Thursday | 1<<time.Friday

var dayTokens = map[string]time.Weekday{
	"SUN":  time.Sunday,
	"MON":  time.Monday,
	"TUE":  time.Tuesday,
	"WED":  time.Wednesday,
	"THUR": time.Thursday,
	"THU":  time.Thursday,
	"FRI":  time.Friday,
	"SAT":  time.Saturday,
}

var dayNames = [...]string{"SUN", "MON", "TUE", "WED", "THUR", "FRI", "SAT"}

// NewWeekdaySet returns a set holding the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// ParseWeekdays parses an underscore separated list of day codes such as
// "MON_WED_FRI". Unknown tokens are dropped, so the result may be empty.
func ParseWeekdays(s string) WeekdaySet {
	var set WeekdaySet
	for _, tok := range strings.Split(s, "_") {
		if d, ok := dayTokens[strings.ToUpper(strings.TrimSpace(tok))]; ok {
			set = set.With(d)
		}
	}
	return set
}

// With returns a copy of s that includes d.
func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<d
}

// Has reports whether d is in the set.
func (s WeekdaySet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<d) != 0
}

// Empty reports whether the set holds no day.
func (s WeekdaySet) Empty() bool { return s == 0 }

// Days lists the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String encodes the set back to its underscore form.
func (s WeekdaySet) String() string {
	days := s.Days()
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, dayNames[d])
	}
	return strings.Join(names, "_")
}
