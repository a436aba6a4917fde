package analytics

import (
	"sort"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

// minGroupDays is the history a category needs before group analysis
// says anything about it.
const minGroupDays = 7

// failureThreshold marks a group day as failed when less than half the
// scheduled habits were completed.
const failureThreshold = 0.5

// CategoryGroup reports how habits sharing a category rise and fall
// together.
type CategoryGroup struct {
	Category    string
	HabitIDs    []string
	Days        int
	FailureDays int
	FailureRate float64
	Strongest   *HabitRate
	Weakest     *HabitRate
}

// DependencyGroups buckets habits by exact category match and measures
// group failure days (days where under 50% of the scheduled members
// were completed). Categories with fewer than 7 recorded days are
// skipped. Within each group the strongest and weakest habits are
// ranked by individual completion rate.
func DependencyGroups(habits []store.Habit) []CategoryGroup {
	byCategory := make(map[string][]int)
	for i := range habits {
		byCategory[habits[i].Category] = append(byCategory[habits[i].Category], i)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var out []CategoryGroup
	for _, cat := range categories {
		members := byCategory[cat]
		if g, ok := analyzeGroup(cat, members, habits); ok {
			out = append(out, g)
		}
	}
	return out
}

func analyzeGroup(category string, members []int, habits []store.Habit) (CategoryGroup, bool) {
	seen := make(map[string]bool)
	for _, idx := range members {
		for day := range habits[idx].Completions {
			seen[day] = true
		}
	}
	if len(seen) < minGroupDays {
		return CategoryGroup{}, false
	}

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)

	g := CategoryGroup{Category: category}
	for _, idx := range members {
		g.HabitIDs = append(g.HabitIDs, habits[idx].ID)
	}

	for _, day := range days {
		t, err := time.Parse(dayFormat, day)
		if err != nil {
			continue
		}
		scheduled, completed := 0, 0
		for _, idx := range members {
			h := &habits[idx]
			if !h.ScheduledOn(t.Weekday()) {
				continue
			}
			scheduled++
			if h.Completions[day] {
				completed++
			}
		}
		if scheduled == 0 {
			continue
		}
		g.Days++
		if float64(completed)/float64(scheduled) < failureThreshold {
			g.FailureDays++
		}
	}
	if g.Days < minGroupDays {
		return CategoryGroup{}, false
	}
	g.FailureRate = float64(g.FailureDays) / float64(g.Days)

	for _, idx := range members {
		h := &habits[idx]
		scheduled, completed := 0, 0
		for day, done := range h.Completions {
			t, err := time.Parse(dayFormat, day)
			if err != nil || !h.ScheduledOn(t.Weekday()) {
				continue
			}
			scheduled++
			if done {
				completed++
			}
		}
		if scheduled == 0 {
			continue
		}
		hr := HabitRate{
			HabitID:      h.ID,
			Name:         h.Name,
			Rate:         float64(completed) / float64(scheduled),
			Observations: scheduled,
		}
		if g.Strongest == nil || hr.Rate > g.Strongest.Rate {
			strongest := hr
			g.Strongest = &strongest
		}
		if g.Weakest == nil || hr.Rate < g.Weakest.Rate {
			weakest := hr
			g.Weakest = &weakest
		}
	}
	return g, true
}
