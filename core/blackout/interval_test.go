package blackout

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var base = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func iv(fromMin, toMin int) Interval {
	return Interval{Start: base.Add(time.Duration(fromMin) * time.Minute), End: base.Add(time.Duration(toMin) * time.Minute)}
}

func TestMergeOverlappingAndTouching(t *testing.T) {
	got := Merge([]Interval{iv(60, 90), iv(0, 30), iv(30, 45), iv(80, 120), iv(200, 210)})
	want := []Interval{iv(0, 45), iv(60, 120), iv(200, 210)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge = %v, want %v", got, want)
	}
	if Total(got) != 115*time.Minute {
		t.Fatalf("total = %v", Total(got))
	}
}

func TestMergeContained(t *testing.T) {
	got := Merge([]Interval{iv(0, 120), iv(10, 20), iv(30, 40)})
	if len(got) != 1 || !reflect.DeepEqual(got[0], iv(0, 120)) {
		t.Fatalf("merge = %v", got)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	in := []Interval{iv(30, 60), iv(0, 40)}
	Merge(in)
	if !reflect.DeepEqual(in, []Interval{iv(30, 60), iv(0, 40)}) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	in := []Interval{iv(0, 30), iv(25, 50), iv(50, 55), iv(70, 80), iv(75, 76), iv(100, 130), iv(90, 100)}
	want := Merge(in)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		perm := append([]Interval(nil), in...)
		r.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		got := Merge(perm)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %v merged to %v, want %v", perm, got, want)
		}
		if Total(got) != Total(want) {
			t.Fatalf("total differs")
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	once := Merge([]Interval{iv(0, 10), iv(5, 20), iv(40, 50)})
	twice := Merge(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestClip(t *testing.T) {
	w := iv(60, 120)
	got, ok := iv(30, 90).Clip(w.Start, w.End)
	if !ok || !reflect.DeepEqual(got, iv(60, 90)) {
		t.Fatalf("clip = %v ok=%v", got, ok)
	}
	if _, ok := iv(0, 60).Clip(w.Start, w.End); ok {
		t.Fatalf("touching interval should clip to nothing")
	}
	if !iv(0, 200).Covers(w.Start, w.End) || iv(61, 200).Covers(w.Start, w.End) {
		t.Fatalf("covers broken")
	}
}
