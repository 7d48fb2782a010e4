package blackout

import (
	"sort"
	"time"
)

// Interval is a closed-open span of time [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End-Start, never negative.
func (i Interval) Duration() time.Duration {
	if !i.End.After(i.Start) {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Covers reports whether i contains the whole of [start, end).
func (i Interval) Covers(start, end time.Time) bool {
	return !i.Start.After(start) && !i.End.Before(end)
}

// Clip clamps i to [start, end). ok is false when nothing remains.
func (i Interval) Clip(start, end time.Time) (Interval, bool) {
	out := i
	if out.Start.Before(start) {
		out.Start = start
	}
	if out.End.After(end) {
		out.End = end
	}
	return out, out.End.After(out.Start)
}

// Merge returns the minimal sorted set of disjoint intervals covering in.
// Touching intervals are merged. The input slice is not modified.
func Merge(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), in...)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Start.Equal(sorted[b].Start) {
			return sorted[a].End.Before(sorted[b].End)
		}
		return sorted[a].Start.Before(sorted[b].Start)
	})
	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Total sums the durations of the intervals.
func Total(in []Interval) time.Duration {
	var d time.Duration
	for _, iv := range in {
		d += iv.Duration()
	}
	return d
}
