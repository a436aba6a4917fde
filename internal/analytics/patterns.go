package analytics

import (
	"time"

	"github.com/sadopc/cadence/internal/store"
)

// minObservations is how many recorded days a habit needs on a weekday
// before it is eligible as that weekday's best or worst performer.
const minObservations = 3

// HabitRate is one habit's completion rate over some set of observations.
type HabitRate struct {
	HabitID      string
	Name         string
	Rate         float64
	Observations int
}

// WeekdayPattern aggregates completion behavior for one weekday across
// all habits and all recorded history.
type WeekdayPattern struct {
	Weekday   time.Weekday
	Scheduled int
	Completed int
	Rate      float64
	Best      *HabitRate
	Worst     *HabitRate
}

// WeekdayPatterns mines per-weekday productivity: for each weekday, the
// aggregate completion rate of habits scheduled on it, plus the best
// and worst individual habits (eligible at 3+ observations).
func WeekdayPatterns(habits []store.Habit) []WeekdayPattern {
	type habitCount struct {
		scheduled int
		completed int
	}
	// weekday -> habit index -> counts
	counts := make([]map[int]*habitCount, 7)
	for i := range counts {
		counts[i] = make(map[int]*habitCount)
	}

	for i := range habits {
		h := &habits[i]
		for day, done := range h.Completions {
			t, err := time.Parse(dayFormat, day)
			if err != nil {
				continue
			}
			wd := t.Weekday()
			if !h.ScheduledOn(wd) {
				continue
			}
			c := counts[wd][i]
			if c == nil {
				c = &habitCount{}
				counts[wd][i] = c
			}
			c.scheduled++
			if done {
				c.completed++
			}
		}
	}

	patterns := make([]WeekdayPattern, 7)
	for wd := 0; wd < 7; wd++ {
		p := WeekdayPattern{Weekday: time.Weekday(wd)}
		for idx := range habits {
			c := counts[wd][idx]
			if c == nil {
				continue
			}
			p.Scheduled += c.scheduled
			p.Completed += c.completed

			if c.scheduled < minObservations {
				continue
			}
			hr := HabitRate{
				HabitID:      habits[idx].ID,
				Name:         habits[idx].Name,
				Rate:         float64(c.completed) / float64(c.scheduled),
				Observations: c.scheduled,
			}
			if p.Best == nil || hr.Rate > p.Best.Rate {
				best := hr
				p.Best = &best
			}
			if p.Worst == nil || hr.Rate < p.Worst.Rate {
				worst := hr
				p.Worst = &worst
			}
		}
		if p.Scheduled > 0 {
			p.Rate = float64(p.Completed) / float64(p.Scheduled)
		}
		patterns[wd] = p
	}
	return patterns
}
