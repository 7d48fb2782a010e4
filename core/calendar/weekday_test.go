package calendar

import (
	"testing"
	"time"

	"github.com/kilianp07/planavail/core/model"
)

func TestResolveValidWeekdays(t *testing.T) {
	if got := ResolveValidWeekdays(model.Plan{}); got != model.Weekdays {
		t.Fatalf("default = %s", got)
	}
	p := model.Plan{Days: model.ParseWeekdays("SAT_SUN")}
	if got := ResolveValidWeekdays(p); !got.Has(time.Saturday) || got.Has(time.Monday) {
		t.Fatalf("explicit = %s", got)
	}
	p = model.Plan{Days: model.ParseWeekdays("FOO_BAR")}
	if got := ResolveValidWeekdays(p); got != model.Weekdays {
		t.Fatalf("unknown tokens should fall back, got %s", got)
	}
}

func TestStepToValidWeekday(t *testing.T) {
	sat := model.NewDate(2025, 1, 4)
	got, ok := StepToValidWeekday(sat, model.NewWeekdaySet(time.Wednesday))
	if !ok || got != model.NewDate(2025, 1, 8) {
		t.Fatalf("step = %s ok=%v", got, ok)
	}
	if _, ok := StepToValidWeekday(sat, 0); ok {
		t.Fatalf("empty set must not resolve")
	}
}

func TestAdvanceBusinessDaysFridayPlusTwo(t *testing.T) {
	fri := model.NewDate(2025, 1, 10)
	got, ok := AdvanceBusinessDays(fri, 2, model.Weekdays)
	if !ok || got != model.NewDate(2025, 1, 14) {
		t.Fatalf("got %s (%s)", got, got.Weekday())
	}
	if got.Weekday() != time.Tuesday {
		t.Fatalf("expected Tuesday, got %s", got.Weekday())
	}
}

func TestAdvanceBusinessDaysZeroSkipsWeekend(t *testing.T) {
	all := model.NewWeekdaySet(time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday)
	start := model.NewDate(2025, 1, 1)
	for i := 0; i < 14; i++ {
		d := start.AddDays(i)
		for _, valid := range []model.WeekdaySet{all, model.Weekdays, model.ParseWeekdays("TUE_SAT"), model.ParseWeekdays("FRI_SUN")} {
			got, ok := AdvanceBusinessDays(d, 0, valid)
			if !ok {
				t.Fatalf("%s %s: not resolved", d, valid)
			}
			if IsWeekend(got) || !valid.Has(got.Weekday()) {
				t.Fatalf("%s %s: got %s (%s)", d, valid, got, got.Weekday())
			}
			if got.Before(d) {
				t.Fatalf("%s: went backwards to %s", d, got)
			}
		}
	}
}

func TestAdvanceBusinessDaysWeekendOnly(t *testing.T) {
	if _, ok := AdvanceBusinessDays(model.NewDate(2025, 1, 6), 0, model.ParseWeekdays("SAT_SUN")); ok {
		t.Fatalf("weekend-only set cannot satisfy a zero lead time")
	}
	got, ok := AdvanceBusinessDays(model.NewDate(2025, 1, 6), 1, model.ParseWeekdays("SAT_SUN"))
	if !ok || got != model.NewDate(2025, 1, 11) {
		t.Fatalf("got %s ok=%v", got, ok)
	}
}

func TestAdvanceBusinessDaysValidSet(t *testing.T) {
	mon := model.NewDate(2025, 1, 6)
	// Monday + 1 business day = Tuesday, then stepped to the next Thursday.
	got, ok := AdvanceBusinessDays(mon, 1, model.ParseWeekdays("THUR"))
	if !ok || got != model.NewDate(2025, 1, 9) {
		t.Fatalf("got %s", got)
	}
}

// stepBusinessDays counts business days one at a time.
func stepBusinessDays(d model.Date, n int) model.Date {
	for counted := 0; counted < n; {
		d = d.AddDays(1)
		if !IsWeekend(d) {
			counted++
		}
	}
	return d
}

func TestAdvanceBusinessDaysMatchesSingleSteps(t *testing.T) {
	start := model.NewDate(2025, 1, 1)
	for i := 0; i < 14; i++ {
		d := start.AddDays(i)
		for n := 1; n <= 40; n++ {
			want, _ := StepToValidWeekday(stepBusinessDays(d, n), model.Weekdays)
			got, ok := AdvanceBusinessDays(d, n, model.Weekdays)
			if !ok || got != want {
				t.Fatalf("%s (%s) + %d: got %s, want %s", d, d.Weekday(), n, got, want)
			}
		}
	}
}

func TestAdvanceBusinessDaysLargeLeadTime(t *testing.T) {
	d := model.NewDate(2025, 1, 6)
	got, ok := AdvanceBusinessDays(d, 1<<30, model.Weekdays)
	if !ok {
		t.Fatalf("not resolved")
	}
	if d.DaysUntil(got) < 1<<30 {
		t.Fatalf("got %s, only %d days ahead", got, d.DaysUntil(got))
	}
}
