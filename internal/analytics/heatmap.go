// Package analytics derives aggregate views (heatmaps, trends,
// correlations, weekday patterns, category groups) from habit
// completion histories. Every function is pure: inputs are never
// mutated and results are freshly allocated.
package analytics

import (
	"time"

	"github.com/sadopc/cadence/internal/store"
)

const dayFormat = "2006-01-02"

// HeatmapDay is one calendar day's completion intensity.
type HeatmapDay struct {
	Day       string
	Scheduled int
	Completed int
	Rate      float64
	Level     int // 0-4
}

// Heatmap computes a per-day intensity bucket for every day of a year:
// the share of habits scheduled on that weekday that were completed on
// that date. Days with nothing scheduled have rate 0.
func Heatmap(habits []store.Habit, year int) []HeatmapDay {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var days []HeatmapDay
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		scheduled, completed := 0, 0
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
		rate := 0.0
		if scheduled > 0 {
			rate = float64(completed) / float64(scheduled)
		}
		days = append(days, HeatmapDay{
			Day:       key,
			Scheduled: scheduled,
			Completed: completed,
			Rate:      rate,
			Level:     HeatmapLevel(rate),
		})
	}
	return days
}

// HeatmapLevel buckets a completion rate into 5 intensity levels.
func HeatmapLevel(rate float64) int {
	switch {
	case rate >= 1.0:
		return 4
	case rate >= 0.8:
		return 3
	case rate >= 0.6:
		return 2
	case rate >= 0.3:
		return 1
	default:
		return 0
	}
}
