// Package goal syncs goal progress from live habit streaks.
package goal

import (
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

// Progress is a goal joined with its habit's live streak.
type Progress struct {
	Goal      store.Goal
	HabitName string
	Current   int
	Completed bool
	Expired   bool
}

// Sync recomputes progress for every goal from the current habit list.
// A goal is completed when the streak reaches the target, or when the
// target date has passed regardless of the streak (expiry completes the
// goal; Expired distinguishes the two cases for display).
func Sync(goals []store.Goal, habits []store.Habit, now time.Time) []Progress {
	byID := make(map[string]*store.Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = &habits[i]
	}

	out := make([]Progress, 0, len(goals))
	for _, g := range goals {
		p := Progress{Goal: g}
		if h, ok := byID[g.HabitID]; ok {
			p.HabitName = h.Name
			p.Current = streak.Current(h.Completions, now)
		}
		p.Expired = now.After(g.TargetDate)
		p.Completed = p.Current >= g.TargetStreak || p.Expired
		out = append(out, p)
	}
	return out
}
