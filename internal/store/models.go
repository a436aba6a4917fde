package store

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Habit is a tracked recurring behavior. Completions maps an ISO day
// (2006-01-02) to whether the habit was done that day. Streak, momentum
// and priority are projections over Completions, never stored.
type Habit struct {
	ID            string
	Name          string
	Notes         string
	Category      string
	Difficulty    Difficulty
	ScheduledDays []time.Weekday
	Archived      bool
	CreatedAt     time.Time
	Completions   map[string]bool
}

// ScheduledOn reports whether the habit is scheduled on the given weekday.
// An empty schedule means every day.
func (h *Habit) ScheduledOn(d time.Weekday) bool {
	if len(h.ScheduledDays) == 0 {
		return true
	}
	for _, sd := range h.ScheduledDays {
		if sd == d {
			return true
		}
	}
	return false
}

// Todo is a one-off or recurring actionable item.
type Todo struct {
	ID          string
	Name        string
	Notes       string
	Category    string
	Priority    Priority
	Energy      Energy
	DueDate     *time.Time
	Archived    bool
	CreatedAt   time.Time
	Completions map[string]bool
}

// Goal declares a target streak length by a target date for one habit.
type Goal struct {
	ID           string
	HabitID      string
	TargetStreak int
	TargetDate   time.Time
	CreatedAt    time.Time
}

// AchievementState is the persisted unlock state for one catalog entry.
// Unlock is monotonic: the store never re-locks an unlocked achievement.
type AchievementState struct {
	ID         string
	Unlocked   bool
	Progress   float64
	UnlockedAt *time.Time
}

// Routine groups habits into an ordered session with a time window.
type Routine struct {
	ID         string
	Name       string
	TimeWindow string // morning, afternoon, evening, any
	HabitIDs   []string
	CreatedAt  time.Time
}

// RoutineSession is one logged run of a routine on a given day.
type RoutineSession struct {
	RoutineID      string
	Day            string
	CompletedCount int
	TotalCount     int
}

// HabitStack is an "after X, do Y" pairing.
type HabitStack struct {
	ID             string
	TriggerHabitID string
	StackedHabitID string
	CreatedAt      time.Time
}

// ContextBundle is a named habit group tied to a situational trigger.
type ContextBundle struct {
	ID        string
	Name      string
	Trigger   string
	HabitIDs  []string
	CreatedAt time.Time
}

// DayKey formats t as the ISO day key used throughout completion maps.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func encodeDays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	sorted := make([]int, len(days))
	for i, d := range days {
		sorted[i] = int(d)
	}
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
