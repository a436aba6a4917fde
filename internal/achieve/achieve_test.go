package achieve

import (
	"testing"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

var testNow = time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)

func find(t *testing.T, achievements []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in result", id)
	return Achievement{}
}

func TestCatalogUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Catalog() {
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Threshold <= 0 {
			t.Errorf("%s: threshold must be positive", def.ID)
		}
		if def.Points <= 0 {
			t.Errorf("%s: points must be positive", def.ID)
		}
	}
}

func TestStatsFrom(t *testing.T) {
	h1 := store.Habit{ID: "a", Category: "health", Completions: map[string]bool{}}
	for off := 0; off < 5; off++ {
		h1.Completions[testNow.AddDate(0, 0, -off).Format("2006-01-02")] = true
	}
	h2 := store.Habit{ID: "b", Category: "work", Completions: map[string]bool{
		"2026-01-01": true,
		"2026-01-05": false, // unmarked entries don't count
	}}

	st := StatsFrom([]store.Habit{h1, h2})
	if st.MaxStreak != 5 {
		t.Errorf("expected max streak 5, got %d", st.MaxStreak)
	}
	if st.TotalCompletions != 6 {
		t.Errorf("expected 6 completions, got %d", st.TotalCompletions)
	}
	if st.CategoryCount != 2 {
		t.Errorf("expected 2 categories, got %d", st.CategoryCount)
	}
}

func TestStatsFromCountsLapsedBest(t *testing.T) {
	// A long-gone 7-day run still counts toward streak achievements
	h := store.Habit{ID: "a", Completions: map[string]bool{}}
	for off := 50; off < 57; off++ {
		h.Completions[testNow.AddDate(0, 0, -off).Format("2006-01-02")] = true
	}
	st := StatsFrom([]store.Habit{h})
	if st.MaxStreak != 7 {
		t.Errorf("expected lapsed best 7, got %d", st.MaxStreak)
	}
}

func TestEvaluateUnlocks(t *testing.T) {
	stats := Stats{MaxStreak: 7, TotalCompletions: 55, CategoryCount: 3}
	out := Evaluate(stats, nil)

	if a := find(t, out, "streak_7"); !a.Unlocked || a.Progress != 100 {
		t.Errorf("streak_7 should unlock: %+v", a)
	}
	if a := find(t, out, "streak_30"); a.Unlocked {
		t.Errorf("streak_30 should stay locked: %+v", a)
	}
	if a := find(t, out, "complete_50"); !a.Unlocked {
		t.Errorf("complete_50 should unlock: %+v", a)
	}
	if a := find(t, out, "categories_3"); !a.Unlocked {
		t.Errorf("categories_3 should unlock: %+v", a)
	}
}

func TestEvaluatePartialProgress(t *testing.T) {
	stats := Stats{MaxStreak: 15, TotalCompletions: 25}
	out := Evaluate(stats, nil)

	a := find(t, out, "streak_30")
	if a.Unlocked || a.Progress != 50 {
		t.Errorf("expected 50%% toward streak_30: %+v", a)
	}
	b := find(t, out, "complete_50")
	if b.Progress != 50 {
		t.Errorf("expected 50%% toward complete_50: %+v", b)
	}
}

func TestEvaluateNeverRelocks(t *testing.T) {
	when := testNow.AddDate(0, 0, -10)
	previous := []store.AchievementState{
		{ID: "streak_30", Unlocked: true, Progress: 100, UnlockedAt: &when},
	}

	// Streak has since collapsed to 2
	out := Evaluate(Stats{MaxStreak: 2}, previous)
	a := find(t, out, "streak_30")
	if !a.Unlocked {
		t.Error("achievement re-locked after streak collapse")
	}
	if a.Progress != 100 {
		t.Errorf("unlocked achievement should hold 100%%, got %v", a.Progress)
	}
	if a.UnlockedAt == nil || !a.UnlockedAt.Equal(when) {
		t.Errorf("unlock time lost: %v", a.UnlockedAt)
	}
}

func TestEvaluateProgressNeverRegresses(t *testing.T) {
	previous := []store.AchievementState{
		{ID: "complete_1000", Progress: 40},
	}
	out := Evaluate(Stats{TotalCompletions: 100}, previous)
	a := find(t, out, "complete_1000")
	if a.Progress != 40 {
		t.Errorf("progress regressed: %v", a.Progress)
	}
}

func TestEvaluateSocialOnlyByCarryForward(t *testing.T) {
	// Huge stats never unlock the social achievement
	out := Evaluate(Stats{MaxStreak: 500, TotalCompletions: 5000, CategoryCount: 10}, nil)
	if a := find(t, out, "share_first"); a.Unlocked {
		t.Error("social achievement must not unlock from stats")
	}

	// But a previous explicit unlock carries forward
	previous := []store.AchievementState{{ID: "share_first", Unlocked: true, Progress: 100}}
	out = Evaluate(Stats{}, previous)
	if a := find(t, out, "share_first"); !a.Unlocked {
		t.Error("explicit social unlock should carry forward")
	}
}

func TestStatesRoundTrip(t *testing.T) {
	out := Evaluate(Stats{MaxStreak: 3}, nil)
	states := States(out)
	if len(states) != len(Catalog()) {
		t.Fatalf("expected a state per catalog entry, got %d", len(states))
	}
	for i, st := range states {
		if st.ID != out[i].ID || st.Unlocked != out[i].Unlocked {
			t.Errorf("state %d does not mirror achievement: %+v vs %+v", i, st, out[i])
		}
	}
}

func TestTotalPoints(t *testing.T) {
	out := Evaluate(Stats{MaxStreak: 3, TotalCompletions: 1}, nil)
	// streak_3 (10) + complete_1 (5)
	if got := TotalPoints(out); got != 15 {
		t.Errorf("expected 15 points, got %d", got)
	}
}
