package streak

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

// history builds a completion map from day offsets back from testNow
// (0 = today, 1 = yesterday, ...).
func history(offsets ...int) map[string]bool {
	h := make(map[string]bool)
	for _, off := range offsets {
		h[testNow.AddDate(0, 0, -off).Format(dayFormat)] = true
	}
	return h
}

// ============================================================
// Current streak
// ============================================================

func TestCurrentEmpty(t *testing.T) {
	if got := Current(nil, testNow); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := Current(map[string]bool{}, testNow); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCurrentEndingToday(t *testing.T) {
	if got := Current(history(0, 1, 2), testNow); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCurrentEndingYesterday(t *testing.T) {
	// Not yet done today: yesterday's run still counts
	if got := Current(history(1, 2, 3), testNow); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCurrentLapsed(t *testing.T) {
	// Last completion two days ago: streak is gone
	if got := Current(history(2, 3, 4), testNow); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCurrentIgnoresGap(t *testing.T) {
	// Gap at offset 2 cuts the run
	if got := Current(history(0, 1, 3, 4, 5), testNow); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCurrentIgnoresFalseEntries(t *testing.T) {
	h := history(0, 1)
	h[testNow.AddDate(0, 0, -2).Format(dayFormat)] = false
	if got := Current(h, testNow); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

// ============================================================
// Best streak
// ============================================================

func TestBestEmpty(t *testing.T) {
	if got := Best(nil); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestBestOldRunBeatsCurrent(t *testing.T) {
	// Current run of 2 today, older run of 5
	h := history(0, 1, 10, 11, 12, 13, 14)
	if got := Best(h); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestBestSingleDays(t *testing.T) {
	h := history(0, 5, 10)
	if got := Best(h); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestBestNeverBelowCurrent(t *testing.T) {
	cases := [][]int{
		{0},
		{0, 1, 2},
		{1, 2, 3, 4},
		{0, 1, 5, 6, 7},
		{0, 1, 2, 3, 4, 5, 6, 20, 21},
	}
	for _, offs := range cases {
		h := history(offs...)
		cur := Current(h, testNow)
		best := Best(h)
		if best < cur {
			t.Errorf("history %v: best %d < current %d", offs, best, cur)
		}
	}
}

// ============================================================
// Momentum
// ============================================================

func TestMomentumEmpty(t *testing.T) {
	if got := Momentum(nil, testNow); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestMomentumTodayOnly(t *testing.T) {
	if got := Momentum(history(0), testNow); got != 80 {
		t.Errorf("expected 80, got %d", got)
	}
}

func TestMomentumOldestDayInWindow(t *testing.T) {
	if got := Momentum(history(6), testNow); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

func TestMomentumOutsideWindow(t *testing.T) {
	if got := Momentum(history(7), testNow); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestMomentumCapped(t *testing.T) {
	if got := Momentum(history(0, 1, 2, 3, 4, 5, 6), testNow); got != 100 {
		t.Errorf("expected cap 100, got %d", got)
	}
}

func TestMomentumMonotonic(t *testing.T) {
	// Adding a completion never lowers momentum
	base := history(4)
	before := Momentum(base, testNow)

	withToday := history(0, 4)
	after := Momentum(withToday, testNow)

	if after < before {
		t.Errorf("momentum dropped from %d to %d after adding a completion", before, after)
	}
	if after <= before {
		t.Errorf("expected strictly higher momentum below the cap, got %d vs %d", after, before)
	}

	// At the cap, adding more completions holds momentum steady
	capped := Momentum(history(0, 1, 2, 3, 4), testNow)
	if got := Momentum(history(0, 1, 2, 3, 4, 5), testNow); got < capped {
		t.Errorf("momentum dropped from %d to %d at the cap", capped, got)
	}
}
