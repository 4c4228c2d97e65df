package daily

import (
	"testing"
	"time"
)

func draws(s *Source, n, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = s.Intn(n)
	}
	return out
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey = %s", got)
	}
}

func TestSourceDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a := draws(NewSource(day, "salt"), 9, 20)
	b := draws(NewSource(later, "salt"), 9, 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs on the same day: %d vs %d", i, a[i], b[i])
		}
	}

	c := draws(NewSource(day, "other"), 9, 20)
	d := draws(NewSource(day.Add(24*time.Hour), "salt"), 9, 20)
	same := func(x, y []int) bool {
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	}
	if same(a, c) {
		t.Fatal("different salts produced the same sequence")
	}
	if same(a, d) {
		t.Fatal("different days produced the same sequence")
	}
}

func TestSourceRange(t *testing.T) {
	s := NewSource(time.Now(), "x")
	for i := 0; i < 500; i++ {
		n := i%9 + 1
		if v := s.Intn(n); v < 0 || v >= n {
			t.Fatalf("Intn(%d) = %d", n, v)
		}
	}
}

func TestSourcePanicsOnBadN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewSource(time.Now(), "x").Intn(0)
}
