package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

// Wednesday, a fixed reference point.
var testNow = time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)

func dayKey(off int) string {
	return testNow.AddDate(0, 0, -off).Format(dayFormat)
}

// dailyHabit builds an every-day habit completed on the given offsets
// back from testNow.
func dailyHabit(id, name, category string, doneOffsets ...int) store.Habit {
	h := store.Habit{ID: id, Name: name, Category: category, Completions: map[string]bool{}}
	for _, off := range doneOffsets {
		h.Completions[dayKey(off)] = true
	}
	return h
}

// recordedHabit marks days as recorded, completed or not, so both
// habits in a pair share the same observation days.
func recordedHabit(id, name string, done map[int]bool) store.Habit {
	h := store.Habit{ID: id, Name: name, Completions: map[string]bool{}}
	for off, ok := range done {
		h.Completions[dayKey(off)] = ok
	}
	return h
}

// ============================================================
// Heatmap
// ============================================================

func TestHeatmapLevels(t *testing.T) {
	cases := []struct {
		rate float64
		want int
	}{
		{0, 0},
		{0.29, 0},
		{0.3, 1},
		{0.59, 1},
		{0.6, 2},
		{0.79, 2},
		{0.8, 3},
		{0.99, 3},
		{1.0, 4},
	}
	for _, c := range cases {
		if got := HeatmapLevel(c.rate); got != c.want {
			t.Errorf("rate %.2f: expected level %d, got %d", c.rate, c.want, got)
		}
	}
}

func TestHeatmapYear(t *testing.T) {
	h1 := dailyHabit("a", "A", "health", 0, 1)
	h2 := dailyHabit("b", "B", "health", 0)

	days := Heatmap([]store.Habit{h1, h2}, 2026)
	if len(days) != 365 {
		t.Fatalf("2026 has 365 days, got %d", len(days))
	}

	byDay := make(map[string]HeatmapDay)
	for _, d := range days {
		byDay[d.Day] = d
	}

	today := byDay[dayKey(0)]
	if today.Scheduled != 2 || today.Completed != 2 || today.Level != 4 {
		t.Errorf("today: %+v", today)
	}
	yesterday := byDay[dayKey(1)]
	if yesterday.Completed != 1 || yesterday.Level != 1 {
		t.Errorf("yesterday: %+v", yesterday)
	}
	blank := byDay[dayKey(2)]
	if blank.Completed != 0 || blank.Level != 0 {
		t.Errorf("blank day: %+v", blank)
	}
}

func TestHeatmapRespectsSchedule(t *testing.T) {
	h := store.Habit{ID: "a", Name: "A", ScheduledDays: []time.Weekday{time.Monday}, Completions: map[string]bool{}}
	days := Heatmap([]store.Habit{h}, 2026)
	for _, d := range days {
		parsed, _ := time.Parse(dayFormat, d.Day)
		if parsed.Weekday() == time.Monday {
			if d.Scheduled != 1 {
				t.Fatalf("Monday %s should be scheduled", d.Day)
			}
		} else if d.Scheduled != 0 {
			t.Fatalf("%s (%v) should not be scheduled", d.Day, parsed.Weekday())
		}
	}
}

// ============================================================
// Trend
// ============================================================

func TestTrendNoData(t *testing.T) {
	res := Trend(nil, testNow)
	if res.Direction != DirectionStable || res.ChangePct != 0 {
		t.Errorf("expected stable zero trend, got %+v", res)
	}
}

func TestTrendImproving(t *testing.T) {
	// Recent 4 weeks mostly done, prior 4 weeks mostly missed
	var offsets []int
	for off := 0; off <= 16; off++ {
		offsets = append(offsets, off)
	}
	h := dailyHabit("a", "A", "health", offsets...)

	res := Trend([]store.Habit{h}, testNow)
	if res.Direction != DirectionImproving {
		t.Errorf("expected improving, got %+v", res)
	}
	if res.RecentRate <= res.PriorRate {
		t.Errorf("recent %f should exceed prior %f", res.RecentRate, res.PriorRate)
	}
}

func TestTrendDeclining(t *testing.T) {
	// All completions deep in the prior window
	var offsets []int
	for off := 30; off <= 45; off++ {
		offsets = append(offsets, off)
	}
	h := dailyHabit("a", "A", "health", offsets...)

	res := Trend([]store.Habit{h}, testNow)
	if res.Direction != DirectionDeclining {
		t.Errorf("expected declining, got %+v", res)
	}
}

func TestTrendPriorZeroRecentPositive(t *testing.T) {
	h := dailyHabit("a", "A", "health", 0, 1, 2)
	res := Trend([]store.Habit{h}, testNow)
	if res.ChangePct != 100 {
		t.Errorf("no prior data with recent activity should report +100%%, got %f", res.ChangePct)
	}
	if res.Direction != DirectionImproving {
		t.Errorf("expected improving, got %s", res.Direction)
	}
}

func TestTrendStableWithinThreshold(t *testing.T) {
	// Same completion pattern in both windows: every other day
	var offsets []int
	for off := 0; off <= 55; off += 2 {
		offsets = append(offsets, off)
	}
	h := dailyHabit("a", "A", "health", offsets...)

	res := Trend([]store.Habit{h}, testNow)
	if res.Direction != DirectionStable {
		t.Errorf("expected stable, got %+v", res)
	}
}

// ============================================================
// Correlations
// ============================================================

func TestCorrelationsPerfectPair(t *testing.T) {
	done := map[int]bool{0: true, 1: false, 2: true, 3: false, 4: true, 5: true, 6: false, 7: true}
	a := recordedHabit("a", "A", done)
	b := recordedHabit("b", "B", done)

	out := Correlations([]store.Habit{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 correlation, got %d", len(out))
	}
	c := out[0]
	if math.Abs(c.Coefficient-1.0) > 1e-9 {
		t.Errorf("identical vectors should correlate at 1.0, got %f", c.Coefficient)
	}
	if c.SampleSize != 8 {
		t.Errorf("expected 8 samples, got %d", c.SampleSize)
	}
}

func TestCorrelationsInversePair(t *testing.T) {
	done := map[int]bool{0: true, 1: false, 2: true, 3: false, 4: true, 5: true, 6: false, 7: true}
	inverse := make(map[int]bool, len(done))
	for off, ok := range done {
		inverse[off] = !ok
	}
	a := recordedHabit("a", "A", done)
	b := recordedHabit("b", "B", inverse)

	out := Correlations([]store.Habit{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 correlation, got %d", len(out))
	}
	if math.Abs(out[0].Coefficient+1.0) > 1e-9 {
		t.Errorf("opposite vectors should correlate at -1.0, got %f", out[0].Coefficient)
	}
}

func TestCorrelationsSymmetric(t *testing.T) {
	done := map[int]bool{0: true, 1: false, 2: true, 3: true, 4: false, 5: true, 6: false, 7: true}
	other := map[int]bool{0: true, 1: true, 2: false, 3: true, 4: false, 5: true, 6: false, 7: true}
	a := recordedHabit("a", "A", done)
	b := recordedHabit("b", "B", other)

	ab := Correlations([]store.Habit{a, b})
	ba := Correlations([]store.Habit{b, a})
	if len(ab) != len(ba) {
		t.Fatalf("order changed result count: %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].Coefficient != ba[i].Coefficient {
			t.Errorf("correlation not symmetric: %f vs %f", ab[i].Coefficient, ba[i].Coefficient)
		}
		if ab[i].HabitA != ba[i].HabitA {
			t.Errorf("pair ordering not canonical: %s vs %s", ab[i].HabitA, ba[i].HabitA)
		}
	}
}

func TestCorrelationsTooFewSamples(t *testing.T) {
	done := map[int]bool{0: true, 1: false, 2: true}
	a := recordedHabit("a", "A", done)
	b := recordedHabit("b", "B", done)
	if out := Correlations([]store.Habit{a, b}); len(out) != 0 {
		t.Errorf("3 common days is below the minimum, got %d results", len(out))
	}
}

func TestCorrelationsZeroVarianceSkipped(t *testing.T) {
	always := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	mixed := map[int]bool{0: true, 1: false, 2: true, 3: false, 4: true, 5: false, 6: true, 7: false}
	a := recordedHabit("a", "A", always)
	b := recordedHabit("b", "B", mixed)
	if out := Correlations([]store.Habit{a, b}); len(out) != 0 {
		t.Errorf("constant vector has no defined correlation, got %d results", len(out))
	}
}

// ============================================================
// Weekday patterns
// ============================================================

func TestWeekdayPatternsAggregates(t *testing.T) {
	// 4 weeks of Wednesdays: habit A completes all, habit B completes 1
	a := store.Habit{ID: "a", Name: "A", Completions: map[string]bool{}}
	b := store.Habit{ID: "b", Name: "B", Completions: map[string]bool{}}
	for week := 0; week < 4; week++ {
		day := dayKey(week * 7) // every Wednesday back from testNow
		a.Completions[day] = true
		b.Completions[day] = week == 0
	}

	patterns := WeekdayPatterns([]store.Habit{a, b})
	if len(patterns) != 7 {
		t.Fatalf("expected 7 weekday buckets, got %d", len(patterns))
	}

	wed := patterns[time.Wednesday]
	if wed.Scheduled != 8 || wed.Completed != 5 {
		t.Errorf("wednesday counts: %+v", wed)
	}
	if wed.Best == nil || wed.Best.HabitID != "a" {
		t.Errorf("best should be A: %+v", wed.Best)
	}
	if wed.Worst == nil || wed.Worst.HabitID != "b" {
		t.Errorf("worst should be B: %+v", wed.Worst)
	}

	mon := patterns[time.Monday]
	if mon.Scheduled != 0 || mon.Best != nil {
		t.Errorf("monday should be empty: %+v", mon)
	}
}

func TestWeekdayPatternsMinObservations(t *testing.T) {
	// Only 2 recorded Wednesdays: no best/worst eligibility
	a := store.Habit{ID: "a", Name: "A", Completions: map[string]bool{
		dayKey(0): true,
		dayKey(7): true,
	}}
	patterns := WeekdayPatterns([]store.Habit{a})
	wed := patterns[time.Wednesday]
	if wed.Best != nil || wed.Worst != nil {
		t.Errorf("2 observations should not qualify: %+v", wed)
	}
	if wed.Scheduled != 2 {
		t.Errorf("aggregate should still count: %+v", wed)
	}
}

// ============================================================
// Dependency groups
// ============================================================

func TestDependencyGroups(t *testing.T) {
	doneA := map[int]bool{}
	doneB := map[int]bool{}
	for off := 0; off < 10; off++ {
		doneA[off] = true
		doneB[off] = off < 3 // B fails most days
	}
	a := recordedHabit("a", "A", doneA)
	b := recordedHabit("b", "B", doneB)
	a.Category = "health"
	b.Category = "health"

	groups := DependencyGroups([]store.Habit{a, b})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Category != "health" || g.Days != 10 {
		t.Errorf("unexpected group: %+v", g)
	}
	// 7 days have only A done: 1/2 = 0.5, not below threshold. 0 failures.
	if g.FailureDays != 0 {
		t.Errorf("expected 0 failure days, got %d", g.FailureDays)
	}
	if g.Strongest == nil || g.Strongest.HabitID != "a" {
		t.Errorf("strongest should be A: %+v", g.Strongest)
	}
	if g.Weakest == nil || g.Weakest.HabitID != "b" {
		t.Errorf("weakest should be B: %+v", g.Weakest)
	}
}

func TestDependencyGroupsFailureDays(t *testing.T) {
	doneA := map[int]bool{}
	doneB := map[int]bool{}
	for off := 0; off < 8; off++ {
		doneA[off] = off < 2
		doneB[off] = off < 2
	}
	a := recordedHabit("a", "A", doneA)
	b := recordedHabit("b", "B", doneB)
	a.Category = "fitness"
	b.Category = "fitness"

	groups := DependencyGroups([]store.Habit{a, b})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.FailureDays != 6 {
		t.Errorf("expected 6 failure days, got %d", g.FailureDays)
	}
	if g.FailureRate != 0.75 {
		t.Errorf("expected 0.75 failure rate, got %f", g.FailureRate)
	}
}

func TestDependencyGroupsTooLittleHistory(t *testing.T) {
	a := dailyHabit("a", "A", "health", 0, 1, 2)
	if groups := DependencyGroups([]store.Habit{a}); len(groups) != 0 {
		t.Errorf("3 recorded days is below the minimum, got %d groups", len(groups))
	}
}
