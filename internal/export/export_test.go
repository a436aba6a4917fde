package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

var testNow = time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func habitWithStreak(name string, days int, completedToday bool) store.Habit {
	h := store.Habit{
		ID:         "h-" + name,
		Name:       name,
		Category:   "health",
		Difficulty: store.DifficultyEasy,
		CreatedAt:  testNow.AddDate(0, -2, 0),

		Completions: map[string]bool{},
	}
	start := 1
	if completedToday {
		start = 0
	}
	for i := 0; i < days; i++ {
		h.Completions[store.DayKey(testNow.AddDate(0, 0, -(start+i)))] = true
	}
	return h
}

// ============================================================
// CSV
// ============================================================

func TestCSVRoundTripStreak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	orig := habitWithStreak("Drink water", 5, true)
	orig.Notes = "8 glasses"

	if err := ToCSV([]store.Habit{orig}, testNow, path); err != nil {
		t.Fatal(err)
	}

	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}

	h := habits[0]
	if h.Name != "Drink water" || h.Category != "health" || h.Difficulty != store.DifficultyEasy {
		t.Errorf("fields lost: %+v", h)
	}
	if h.Notes != "8 glasses" {
		t.Errorf("notes lost: %q", h.Notes)
	}
	if got := streak.Current(h.Completions, testNow); got != 5 {
		t.Errorf("current streak should survive the round trip: got %d, want 5", got)
	}
	if got := streak.Best(h.Completions); got != 5 {
		t.Errorf("best streak should survive: got %d, want 5", got)
	}
	if !h.Completions[store.DayKey(testNow)] {
		t.Error("completed-today flag lost")
	}
}

func TestCSVRoundTripBestBeyondCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	// Current run of 2 ending yesterday, older best of 9
	orig := habitWithStreak("Read", 2, false)
	for i := 0; i < 9; i++ {
		orig.Completions[store.DayKey(testNow.AddDate(0, 0, -(20+i)))] = true
	}

	if err := ToCSV([]store.Habit{orig}, testNow, path); err != nil {
		t.Fatal(err)
	}
	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}

	h := habits[0]
	if got := streak.Current(h.Completions, testNow); got != 2 {
		t.Errorf("current: got %d, want 2", got)
	}
	if got := streak.Best(h.Completions); got != 9 {
		t.Errorf("best: got %d, want 9", got)
	}
}

func TestFromCSVHeaderOptional(t *testing.T) {
	withHeader := writeFile(t, "a.csv",
		"Name,Category,Difficulty,Current Streak,Best Streak,Created Date,Completed Today,Notes\n"+
			"Run,fitness,hard,3,3,2026-01-01,false,\n")
	bare := writeFile(t, "b.csv", "Run,fitness,hard,3,3,2026-01-01,false,\n")

	for _, path := range []string{withHeader, bare} {
		habits, err := FromCSV(path, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(habits) != 1 || habits[0].Name != "Run" {
			t.Errorf("%s: unexpected result %+v", path, habits)
		}
	}
}

func TestFromCSVPermissiveDefaults(t *testing.T) {
	// Only a name: everything else defaults
	path := writeFile(t, "short.csv", "Stretch\n")

	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	h := habits[0]
	if h.Category != "other" {
		t.Errorf("expected default category, got %q", h.Category)
	}
	if h.Difficulty != store.DifficultyMedium {
		t.Errorf("expected default difficulty, got %q", h.Difficulty)
	}
	if len(h.ScheduledDays) != 7 {
		t.Errorf("csv habits should default to daily: %v", h.ScheduledDays)
	}
	if len(h.Completions) != 0 {
		t.Errorf("no streak columns should mean no history: %v", h.Completions)
	}
}

func TestFromCSVSkipsBlankRows(t *testing.T) {
	path := writeFile(t, "blank.csv", "Run,fitness\n,\n  ,\nWalk,health\n")

	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
}

func TestFromCSVCompletedTodayZeroStreak(t *testing.T) {
	// Contradictory input: done today but streak column says 0.
	// Imported as a streak of 1 so today's completion survives.
	path := writeFile(t, "contradict.csv", "Run,fitness,easy,0,0,2026-01-01,true,\n")

	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	h := habits[0]
	if !h.Completions[store.DayKey(testNow)] {
		t.Error("today's completion should be kept")
	}
	if got := streak.Current(h.Completions, testNow); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
}

func TestFromCSVNegativeStreakIgnored(t *testing.T) {
	path := writeFile(t, "neg.csv", "Run,fitness,easy,-5,-3,2026-01-01,false,\n")

	habits, err := FromCSV(path, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got := streak.Current(habits[0].Completions, testNow); got != 0 {
		t.Errorf("negative streak column should read 0, got %d", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSONRoundTripLossless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	orig := habitWithStreak("Meditate", 4, true)
	orig.Notes = "10 minutes"
	orig.ScheduledDays = []time.Weekday{time.Monday, time.Thursday}
	orig.Archived = true

	when := testNow.AddDate(0, 0, -7)
	states := []store.AchievementState{
		{ID: "streak_3", Unlocked: true, Progress: 100, UnlockedAt: &when},
		{ID: "streak_30", Unlocked: false, Progress: 13.3},
	}

	if err := ToJSON([]store.Habit{orig}, states, testNow, path); err != nil {
		t.Fatal(err)
	}

	habits, gotStates, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}

	h := habits[0]
	if h.ID != orig.ID || h.Name != orig.Name || h.Notes != orig.Notes {
		t.Errorf("identity fields lost: %+v", h)
	}
	if !h.Archived {
		t.Error("archived flag lost")
	}
	if len(h.ScheduledDays) != 2 || h.ScheduledDays[0] != time.Monday || h.ScheduledDays[1] != time.Thursday {
		t.Errorf("schedule lost: %v", h.ScheduledDays)
	}
	if len(h.Completions) != len(orig.Completions) {
		t.Errorf("history lost: %d vs %d days", len(h.Completions), len(orig.Completions))
	}
	if got := streak.Current(h.Completions, testNow); got != 4 {
		t.Errorf("streak after round trip: got %d, want 4", got)
	}

	if len(gotStates) != 2 {
		t.Fatalf("expected 2 achievement states, got %d", len(gotStates))
	}
	if !gotStates[0].Unlocked || gotStates[0].UnlockedAt == nil {
		t.Errorf("unlocked state lost: %+v", gotStates[0])
	}
	if gotStates[1].Progress != 13.3 {
		t.Errorf("progress lost: %+v", gotStates[1])
	}
}

func TestFromJSONRejectsMissingHabits(t *testing.T) {
	path := writeFile(t, "bad.json", `{"version":1,"exported_at":"2026-03-18T10:00:00Z"}`)

	_, _, err := FromJSON(path)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestFromJSONEmptyHabitsAllowed(t *testing.T) {
	path := writeFile(t, "empty.json", `{"version":1,"habits":[]}`)

	habits, _, err := FromJSON(path)
	if err != nil {
		t.Fatalf("empty habits array is a valid snapshot: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits, got %d", len(habits))
	}
}

func TestFromJSONSkipsMalformedEntries(t *testing.T) {
	path := writeFile(t, "mixed.json", `{
		"version": 1,
		"habits": [
			{"id": "x", "name": "", "category": "health"},
			{"id": "y", "name": "Valid", "category": "health", "difficulty": "easy", "created_at": "2026-01-01T00:00:00Z"}
		]
	}`)

	habits, _, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Name != "Valid" {
		t.Errorf("nameless habit should be skipped: %+v", habits)
	}
}

func TestFromJSONInvalidFile(t *testing.T) {
	path := writeFile(t, "garbage.json", "not json at all")
	if _, _, err := FromJSON(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFromJSONScheduledDayBounds(t *testing.T) {
	path := writeFile(t, "days.json", `{
		"version": 1,
		"habits": [{"id":"x","name":"X","scheduled_days":[0,6,7,-1,3]}]
	}`)

	habits, _, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits[0].ScheduledDays) != 3 {
		t.Errorf("out-of-range weekdays should be dropped: %v", habits[0].ScheduledDays)
	}
}
