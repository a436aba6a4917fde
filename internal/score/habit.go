package score

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

// HabitWeights holds the point tables for the habit scorer: streak up
// to 35, scheduled-today 30, weekly shortfall up to 20, category up to
// 10 and inverse difficulty up to 5.
type HabitWeights struct {
	StreakPerDay   int
	StreakCap      int
	ScheduledToday int
	ShortfallMax   int

	DifficultyEasy   int
	DifficultyMedium int
	DifficultyHard   int

	CompletedMultiplier float64
}

// DefaultHabitWeights returns the standard habit scoring table.
func DefaultHabitWeights() HabitWeights {
	return HabitWeights{
		StreakPerDay:        3,
		StreakCap:           35,
		ScheduledToday:      30,
		ShortfallMax:        20,
		DifficultyEasy:      5,
		DifficultyMedium:    3,
		DifficultyHard:      1,
		CompletedMultiplier: 0.3,
	}
}

// ScoreHabit ranks one habit at the given reference time.
func ScoreHabit(h *store.Habit, now time.Time, w HabitWeights) (Result, error) {
	if h == nil {
		return Result{}, ErrInvalidItem
	}

	var res Result
	total := 0.0

	cur := streak.Current(h.Completions, now)
	streakPts := cur * w.StreakPerDay
	if streakPts > w.StreakCap {
		streakPts = w.StreakCap
	}
	total += float64(streakPts)
	if cur >= 3 {
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d-day streak at stake", cur))
	}

	scheduledToday := h.ScheduledOn(now.Weekday())
	if scheduledToday {
		total += float64(w.ScheduledToday)
		res.Reasons = append(res.Reasons, "scheduled today")
	}

	shortfall := weeklyShortfall(h, now, w.ShortfallMax)
	total += float64(shortfall)
	if shortfall > w.ShortfallMax/2 {
		res.Reasons = append(res.Reasons, "behind on this week's schedule")
	}

	total += float64(CategoryWeight(h.Category))

	switch h.Difficulty {
	case store.DifficultyEasy:
		total += float64(w.DifficultyEasy)
	case store.DifficultyMedium:
		total += float64(w.DifficultyMedium)
	case store.DifficultyHard:
		total += float64(w.DifficultyHard)
	}

	completedToday := h.Completions[store.DayKey(now)]
	if completedToday {
		total *= w.CompletedMultiplier
		res.Reasons = append(res.Reasons, "already done today")
	}

	res.Score = clamp(total)
	res.Tier = tierFor(res.Score)
	res.Suggestions = habitSuggestions(cur, shortfall, scheduledToday, completedToday, w)
	return res, nil
}

// weeklyShortfall measures how far behind the habit is on its schedule
// for the current week (Monday through today). A habit with no
// scheduled days elapsed yet has no shortfall.
func weeklyShortfall(h *store.Habit, now time.Time, max int) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := weekStart(today)

	scheduled, completed := 0, 0
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		if !h.ScheduledOn(d.Weekday()) {
			continue
		}
		scheduled++
		if h.Completions[store.DayKey(d)] {
			completed++
		}
	}
	if scheduled == 0 {
		return 0
	}
	rate := float64(completed) / float64(scheduled)
	return clampTo(int((1-rate)*float64(max)+0.5), max)
}

func clampTo(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// weekStart returns the Monday on or before the given day.
func weekStart(day time.Time) time.Time {
	wd := day.Weekday()
	if wd == time.Sunday {
		wd = 7
	}
	return day.AddDate(0, 0, -int(wd-time.Monday))
}

func habitSuggestions(cur, shortfall int, scheduledToday, completedToday bool, w HabitWeights) []string {
	var out []string
	if completedToday {
		return out
	}
	if scheduledToday && cur >= 7 {
		out = append(out, "Keep the streak alive")
	}
	if scheduledToday && cur == 0 {
		out = append(out, "Start a new streak today")
	}
	if shortfall > w.ShortfallMax/2 {
		out = append(out, "Catch up on this week's schedule")
	}
	return out
}

// RankedHabit pairs a habit with its score.
type RankedHabit struct {
	Habit  store.Habit
	Result Result
}

// RankHabits scores and sorts habits highest first, with ID as the
// deterministic tie-break.
func RankHabits(habits []store.Habit, now time.Time, w HabitWeights) []RankedHabit {
	ranked := make([]RankedHabit, 0, len(habits))
	for i := range habits {
		res, err := ScoreHabit(&habits[i], now, w)
		if err != nil {
			continue
		}
		ranked = append(ranked, RankedHabit{Habit: habits[i], Result: res})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Result.Score != ranked[j].Result.Score {
			return ranked[i].Result.Score > ranked[j].Result.Score
		}
		return ranked[i].Habit.ID < ranked[j].Habit.ID
	})
	return ranked
}
