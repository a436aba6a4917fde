package goal

import (
	"testing"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

var testNow = time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)

func habitWithStreak(id, name string, days int) store.Habit {
	h := store.Habit{ID: id, Name: name, Completions: map[string]bool{}}
	for off := 0; off < days; off++ {
		h.Completions[testNow.AddDate(0, 0, -off).Format("2006-01-02")] = true
	}
	return h
}

func TestSyncInProgress(t *testing.T) {
	h := habitWithStreak("h1", "Run", 5)
	g := store.Goal{ID: "g1", HabitID: "h1", TargetStreak: 10, TargetDate: testNow.AddDate(0, 1, 0)}

	out := Sync([]store.Goal{g}, []store.Habit{h}, testNow)
	if len(out) != 1 {
		t.Fatalf("expected 1 progress, got %d", len(out))
	}
	p := out[0]
	if p.HabitName != "Run" || p.Current != 5 {
		t.Errorf("unexpected progress: %+v", p)
	}
	if p.Completed || p.Expired {
		t.Errorf("goal should still be open: %+v", p)
	}
}

func TestSyncTargetReached(t *testing.T) {
	h := habitWithStreak("h1", "Run", 10)
	g := store.Goal{ID: "g1", HabitID: "h1", TargetStreak: 10, TargetDate: testNow.AddDate(0, 1, 0)}

	p := Sync([]store.Goal{g}, []store.Habit{h}, testNow)[0]
	if !p.Completed {
		t.Error("streak at target should complete the goal")
	}
	if p.Expired {
		t.Error("goal reached before the deadline is not expired")
	}
}

func TestSyncExpiryCompletes(t *testing.T) {
	// Deadline passed with streak short of target: completed and expired
	h := habitWithStreak("h1", "Run", 3)
	g := store.Goal{ID: "g1", HabitID: "h1", TargetStreak: 30, TargetDate: testNow.AddDate(0, 0, -1)}

	p := Sync([]store.Goal{g}, []store.Habit{h}, testNow)[0]
	if !p.Completed {
		t.Error("expired goal should be completed")
	}
	if !p.Expired {
		t.Error("expired flag should distinguish the deadline case")
	}
	if p.Current != 3 {
		t.Errorf("streak should still report: %d", p.Current)
	}
}

func TestSyncMissingHabit(t *testing.T) {
	g := store.Goal{ID: "g1", HabitID: "gone", TargetStreak: 7, TargetDate: testNow.AddDate(0, 1, 0)}

	p := Sync([]store.Goal{g}, nil, testNow)[0]
	if p.HabitName != "" || p.Current != 0 {
		t.Errorf("missing habit should leave progress empty: %+v", p)
	}
	if p.Completed {
		t.Error("goal with no habit data should stay open until expiry")
	}
}

func TestSyncLapsedStreak(t *testing.T) {
	// Completions exist but the run ended days ago
	h := store.Habit{ID: "h1", Name: "Run", Completions: map[string]bool{
		testNow.AddDate(0, 0, -5).Format("2006-01-02"): true,
		testNow.AddDate(0, 0, -6).Format("2006-01-02"): true,
	}}
	g := store.Goal{ID: "g1", HabitID: "h1", TargetStreak: 2, TargetDate: testNow.AddDate(0, 1, 0)}

	p := Sync([]store.Goal{g}, []store.Habit{h}, testNow)[0]
	if p.Current != 0 {
		t.Errorf("lapsed streak should read 0, got %d", p.Current)
	}
	if p.Completed {
		t.Error("lapsed streak does not satisfy the target")
	}
}
