package application

import (
	"math/rand"
	"testing"
	"time"
)

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestOverlapBoundaries(t *testing.T) {
	// 已有区间 [10:00, 12:00]
	existing := []TimeRange{{Start: at(10, 0), End: at(12, 0)}}
	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", at(10, 30), at(11, 30), true},
		{"covers", at(9, 0), at(13, 0), true},
		{"left_partial", at(9, 0), at(10, 30), true},
		{"right_partial", at(11, 30), at(13, 0), true},
		{"touch_start", at(8, 0), at(10, 0), true}, // 端点相接也冲突
		{"touch_end", at(12, 0), at(14, 0), true},
		{"before", at(8, 0), at(9, 59), false},
		{"after", at(12, 1), at(14, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasOverlap(existing, tc.start, tc.end); got != tc.want {
				t.Fatalf("HasOverlap(%s-%s) = %v, want %v",
					tc.start.Format("15:04"), tc.end.Format("15:04"), got, tc.want)
			}
		})
	}
}

func TestOverlapSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := randRange(rng)
		b := randRange(rng)
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("Overlaps not symmetric: %+v vs %+v", a, b)
		}
		// 相交当且仅当 s1 <= e2 且 s2 <= e1
		want := !a.Start.After(b.End) && !b.Start.After(a.End)
		if a.Overlaps(b) != want {
			t.Fatalf("Overlaps(%+v, %+v) = %v, want %v", a, b, a.Overlaps(b), want)
		}
	}
}

func randRange(rng *rand.Rand) TimeRange {
	s := rng.Intn(24 * 60)
	e := s + rng.Intn(8*60)
	return TimeRange{Start: at(0, s), End: at(0, e)}
}

func TestHasOverlapEmpty(t *testing.T) {
	if HasOverlap(nil, at(10, 0), at(12, 0)) {
		t.Fatal("empty existing set must not conflict")
	}
}
