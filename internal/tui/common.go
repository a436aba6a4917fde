package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/cadence/internal/achieve"
	"github.com/sadopc/cadence/internal/analytics"
	"github.com/sadopc/cadence/internal/goal"
	"github.com/sadopc/cadence/internal/score"
	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHabits
	viewTasks
	viewAnalytics
	viewGoals
	viewSettings
)

var viewNames = []string{"Dashboard", "Habits", "Tasks", "Analytics", "Goals", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type dashboardDataMsg struct {
	rankedHabits []score.RankedHabit
	rankedTodos  []score.RankedTodo
	routines     []routineProgress
	doneToday    int
	dueToday     int
}

type habitsDataMsg struct {
	habits []store.Habit
}

type todosDataMsg struct {
	todos []score.RankedTodo
}

type analyticsDataMsg struct {
	trend        analytics.TrendResult
	patterns     []analytics.WeekdayPattern
	correlations []analytics.Correlation
	heatmap      []analytics.HeatmapDay
	groups       []analytics.CategoryGroup
}

type goalsDataMsg struct {
	progress     []goal.Progress
	achievements []achieve.Achievement
	habits       []store.Habit
}

type settingsDataMsg struct {
	settings map[string]string
}

type habitToggledMsg struct {
	name string
	done bool
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	count int
}

type backupDoneMsg struct{}

// --- Helpers ---

func streakFor(h *store.Habit, now time.Time) int {
	return streak.Current(h.Completions, now)
}

func formatStreak(n int) string {
	if n == 0 {
		return "—"
	}
	return fmt.Sprintf("🔥%d", n)
}

func formatDay(t time.Time) string {
	return t.Format("Jan 02")
}
