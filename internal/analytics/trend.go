package analytics

import (
	"time"

	"github.com/sadopc/cadence/internal/store"
)

type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// TrendResult compares completion rates of the most recent 4 weeks
// against the 4 weeks before them.
type TrendResult struct {
	RecentRate float64
	PriorRate  float64
	ChangePct  float64
	Direction  Direction
}

// Trend looks at an 8-week window aligned to the start of the current
// week (Monday) and reports whether overall completion is improving,
// declining or stable. A change of more than ±10% moves the direction.
// Windows with nothing scheduled count as rate 0 rather than an error.
func Trend(habits []store.Habit, now time.Time) TrendResult {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	ws := weekStart(today)

	recentStart := ws.AddDate(0, 0, -21) // current week plus 3 before it
	priorStart := ws.AddDate(0, 0, -49)

	recent := completionRate(habits, recentStart, today)
	prior := completionRate(habits, priorStart, recentStart.AddDate(0, 0, -1))

	res := TrendResult{RecentRate: recent, PriorRate: prior, Direction: DirectionStable}
	switch {
	case prior == 0 && recent == 0:
		return res
	case prior == 0:
		res.ChangePct = 100
	default:
		res.ChangePct = (recent - prior) / prior * 100
	}

	switch {
	case res.ChangePct > 10:
		res.Direction = DirectionImproving
	case res.ChangePct < -10:
		res.Direction = DirectionDeclining
	}
	return res
}

// completionRate is completed/scheduled over [from, to] inclusive,
// or 0 when nothing was scheduled.
func completionRate(habits []store.Habit, from, to time.Time) float64 {
	scheduled, completed := 0, 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		for i := range habits {
			h := &habits[i]
			if !h.ScheduledOn(d.Weekday()) {
				continue
			}
			scheduled++
			if h.Completions[key] {
				completed++
			}
		}
	}
	if scheduled == 0 {
		return 0
	}
	return float64(completed) / float64(scheduled)
}

// weekStart returns the Monday on or before the given day.
func weekStart(day time.Time) time.Time {
	wd := day.Weekday()
	if wd == time.Sunday {
		wd = 7
	}
	return day.AddDate(0, 0, -int(wd-time.Monday))
}
