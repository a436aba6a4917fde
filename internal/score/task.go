package score

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

// TaskWeights holds the point tables for the todo scorer. The deadline
// buckets max out at 40, priority at 25, streak at 20, momentum at 10
// and energy match at 5, so the factors contribute 40/25/20/10/5 percent
// of a full score.
type TaskWeights struct {
	Overdue     int
	DueToday    int
	DueTomorrow int
	DueIn3Days  int
	DueIn7Days  int
	DueLater    int
	NoDeadline  int

	PriorityHigh   int
	PriorityMedium int
	PriorityLow    int

	StreakPerDay int
	StreakCap    int

	MomentumDivisor int

	EnergyMatch int

	// CompletedMultiplier deprioritizes items already done today.
	CompletedMultiplier float64
}

// DefaultTaskWeights returns the standard todo scoring table.
func DefaultTaskWeights() TaskWeights {
	return TaskWeights{
		Overdue:             40,
		DueToday:            35,
		DueTomorrow:         25,
		DueIn3Days:          15,
		DueIn7Days:          8,
		DueLater:            3,
		NoDeadline:          5,
		PriorityHigh:        25,
		PriorityMedium:      15,
		PriorityLow:         5,
		StreakPerDay:        2,
		StreakCap:           20,
		MomentumDivisor:     10,
		EnergyMatch:         5,
		CompletedMultiplier: 0.2,
	}
}

// ScoreTodo ranks one todo at the given reference time.
func ScoreTodo(t *store.Todo, now time.Time, w TaskWeights) (Result, error) {
	if t == nil {
		return Result{}, ErrInvalidItem
	}

	var res Result
	total := 0.0

	pts, reason := deadlinePoints(t.DueDate, now, w)
	total += float64(pts)
	if reason != "" {
		res.Reasons = append(res.Reasons, reason)
	}

	switch t.Priority {
	case store.PriorityHigh:
		total += float64(w.PriorityHigh)
		res.Reasons = append(res.Reasons, "high priority")
	case store.PriorityMedium:
		total += float64(w.PriorityMedium)
	case store.PriorityLow:
		total += float64(w.PriorityLow)
	}

	cur := streak.Current(t.Completions, now)
	streakPts := cur * w.StreakPerDay
	if streakPts > w.StreakCap {
		streakPts = w.StreakCap
	}
	total += float64(streakPts)
	if cur >= 3 {
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d-day streak to maintain", cur))
	}

	momentum := streak.Momentum(t.Completions, now)
	total += float64(momentum / w.MomentumDivisor)

	if energyMatches(t.Energy, now) {
		total += float64(w.EnergyMatch)
		res.Reasons = append(res.Reasons, "matches current energy window")
	}

	completedToday := t.Completions[store.DayKey(now)]
	if completedToday {
		total *= w.CompletedMultiplier
		res.Reasons = append(res.Reasons, "already done today")
	}

	res.Score = clamp(total)
	res.Tier = tierFor(res.Score)
	res.Suggestions = taskSuggestions(t, cur, momentum, completedToday, now)
	return res, nil
}

func deadlinePoints(due *time.Time, now time.Time, w TaskWeights) (int, string) {
	if due == nil {
		return w.NoDeadline, ""
	}
	days := daysUntil(*due, now)
	switch {
	case days < 0:
		return w.Overdue, "overdue"
	case days == 0:
		return w.DueToday, "due today"
	case days == 1:
		return w.DueTomorrow, "due tomorrow"
	case days <= 3:
		return w.DueIn3Days, "due within 3 days"
	case days <= 7:
		return w.DueIn7Days, "due this week"
	default:
		return w.DueLater, ""
	}
}

// daysUntil counts whole calendar days from now's date to t's date;
// negative means t is in the past.
func daysUntil(t, now time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// energyMatches pairs the item's energy requirement with the time of
// day: high energy in the morning, medium in the afternoon, low in the
// evening.
func energyMatches(e store.Energy, now time.Time) bool {
	h := now.Hour()
	switch {
	case h >= 5 && h < 12:
		return e == store.EnergyHigh
	case h >= 12 && h < 17:
		return e == store.EnergyMedium
	default:
		return e == store.EnergyLow
	}
}

func taskSuggestions(t *store.Todo, cur, momentum int, completedToday bool, now time.Time) []string {
	var out []string
	if completedToday {
		return out
	}
	if t.DueDate != nil && daysUntil(*t.DueDate, now) <= 0 {
		out = append(out, "Do this first today")
	}
	if cur >= 7 {
		out = append(out, "Keep the streak alive")
	}
	if momentum == 0 && len(t.Completions) > 0 {
		out = append(out, "Start small to rebuild momentum")
	}
	return out
}

// RankedTodo pairs a todo with its score.
type RankedTodo struct {
	Todo   store.Todo
	Result Result
}

// RankTodos scores and sorts todos highest first. Ties are broken by ID
// so the ordering is deterministic.
func RankTodos(todos []store.Todo, now time.Time, w TaskWeights) []RankedTodo {
	ranked := make([]RankedTodo, 0, len(todos))
	for i := range todos {
		res, err := ScoreTodo(&todos[i], now, w)
		if err != nil {
			continue
		}
		ranked = append(ranked, RankedTodo{Todo: todos[i], Result: res})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Result.Score != ranked[j].Result.Score {
			return ranked[i].Result.Score > ranked[j].Result.Score
		}
		return ranked[i].Todo.ID < ranked[j].Todo.ID
	})
	return ranked
}
