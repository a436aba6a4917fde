package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cadence/internal/achieve"
	"github.com/sadopc/cadence/internal/score"
	"github.com/sadopc/cadence/internal/store"
)

// dashboardModel shows the day's ranked recommendations: habits and
// tasks ordered by priority score, with a quick-toggle on each row.
type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	rankedHabits []score.RankedHabit
	rankedTodos  []score.RankedTodo
	routines     []routineProgress
	doneToday    int
	dueToday     int

	cursor  int
	loading bool
}

// routineProgress is a routine's live progress for today, computed by
// intersecting its member habits' completion maps.
type routineProgress struct {
	routine   store.Routine
	completed int
	total     int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s, loading: true}
}

func (m *dashboardModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m dashboardModel) loadData() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		now := time.Now()

		habits, err := s.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		todos, err := s.ListTodos(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		day := store.DayKey(now)
		doneToday := 0
		dueToday := 0
		for i := range habits {
			if habits[i].ScheduledOn(now.Weekday()) {
				dueToday++
				if habits[i].Completions[day] {
					doneToday++
				}
			}
		}

		routines, err := s.ListRoutines()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		byID := make(map[string]*store.Habit, len(habits))
		for i := range habits {
			byID[habits[i].ID] = &habits[i]
		}
		var progress []routineProgress
		for _, r := range routines {
			completed, total := routineProgressFor(r, byID, day)
			progress = append(progress, routineProgress{routine: r, completed: completed, total: total})
		}

		return dashboardDataMsg{
			rankedHabits: score.RankHabits(habits, now, score.DefaultHabitWeights()),
			rankedTodos:  score.RankTodos(todos, now, score.DefaultTaskWeights()),
			routines:     progress,
			doneToday:    doneToday,
			dueToday:     dueToday,
		}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.rankedHabits = msg.rankedHabits
		m.rankedTodos = msg.rankedTodos
		m.routines = msg.routines
		m.doneToday = msg.doneToday
		m.dueToday = msg.dueToday
		m.loading = false
		if m.cursor >= m.rowCount() {
			m.cursor = 0
		}
		return m, nil

	case habitToggledMsg:
		return m, m.loadData()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return m, m.toggleSelected()
		}
	}
	return m, nil
}

// rowCount is the habit rows plus the todo rows, habits first.
func (m dashboardModel) rowCount() int {
	return len(m.rankedHabits) + len(m.rankedTodos)
}

func (m dashboardModel) toggleSelected() tea.Cmd {
	s := m.store
	idx := m.cursor

	if idx < len(m.rankedHabits) {
		h := m.rankedHabits[idx].Habit
		return func() tea.Msg {
			day := store.DayKey(time.Now())
			done, err := s.ToggleHabitCompletion(h.ID, day)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Toggle error: %v", err), isError: true}
			}
			if err := refreshAchievements(s); err != nil {
				return statusMsg{text: fmt.Sprintf("Achievement error: %v", err), isError: true}
			}
			if err := syncRoutineSessions(s, day); err != nil {
				return statusMsg{text: fmt.Sprintf("Routine error: %v", err), isError: true}
			}
			return habitToggledMsg{name: h.Name, done: done}
		}
	}

	idx -= len(m.rankedHabits)
	if idx >= len(m.rankedTodos) {
		return nil
	}
	t := m.rankedTodos[idx].Todo
	return func() tea.Msg {
		day := store.DayKey(time.Now())
		done, err := s.ToggleTodoCompletion(t.ID, day)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Toggle error: %v", err), isError: true}
		}
		return habitToggledMsg{name: t.Name, done: done}
	}
}

// refreshAchievements re-evaluates the catalog against current habit
// stats and persists any newly unlocked entries.
func refreshAchievements(s *store.Store) error {
	habits, err := s.ListHabits(true)
	if err != nil {
		return err
	}
	previous, err := s.ListAchievementStates()
	if err != nil {
		return err
	}
	achievements := achieve.Evaluate(achieve.StatsFrom(habits), previous)
	for _, st := range achieve.States(achievements) {
		if err := s.SaveAchievementState(st); err != nil {
			return err
		}
	}
	return nil
}

// routineProgressFor counts how many of a routine's member habits are
// completed on the given day. Members missing from byID are skipped.
func routineProgressFor(r store.Routine, byID map[string]*store.Habit, day string) (completed, total int) {
	for _, hid := range r.HabitIDs {
		h, ok := byID[hid]
		if !ok {
			continue
		}
		total++
		if h.Completions[day] {
			completed++
		}
	}
	return completed, total
}

// syncRoutineSessions recomputes each routine's session for the day from
// its member habits and upserts the result.
func syncRoutineSessions(s *store.Store, day string) error {
	routines, err := s.ListRoutines()
	if err != nil {
		return err
	}
	if len(routines) == 0 {
		return nil
	}
	habits, err := s.ListHabits(false)
	if err != nil {
		return err
	}
	byID := make(map[string]*store.Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = &habits[i]
	}
	for _, r := range routines {
		completed, total := routineProgressFor(r, byID, day)
		if total == 0 {
			continue
		}
		if err := s.LogRoutineSession(r.ID, day, completed, total); err != nil {
			return err
		}
	}
	return nil
}

func (m dashboardModel) view() string {
	if m.loading {
		return mutedStyle.Render("  Loading...")
	}

	var rows []string

	summary := fmt.Sprintf("Today: %d/%d habits done", m.doneToday, m.dueToday)
	rows = append(rows, titleStyle.Render("  "+summary))
	rows = append(rows, "")

	rows = append(rows, highlightStyle.Render("  Habits"))
	if len(m.rankedHabits) == 0 {
		rows = append(rows, mutedStyle.Render("    No habits yet. Press 2 then n to add one."))
	}
	for i, rh := range m.rankedHabits {
		rows = append(rows, m.renderHabitRow(i, rh))
	}

	rows = append(rows, "")
	rows = append(rows, highlightStyle.Render("  Tasks"))
	if len(m.rankedTodos) == 0 {
		rows = append(rows, mutedStyle.Render("    No open tasks."))
	}
	for i, rt := range m.rankedTodos {
		rows = append(rows, m.renderTodoRow(len(m.rankedHabits)+i, rt))
	}

	if len(m.routines) > 0 {
		rows = append(rows, "")
		rows = append(rows, highlightStyle.Render("  Routines"))
		for _, rp := range m.routines {
			mark := "  "
			if rp.total > 0 && rp.completed == rp.total {
				mark = successStyle.Render("✔ ")
			}
			line := fmt.Sprintf("    %s%-20s %d/%d %s",
				mark, truncate(rp.routine.Name, 20), rp.completed, rp.total,
				mutedStyle.Render(rp.routine.TimeWindow))
			rows = append(rows, normalItemStyle.Render(line))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m dashboardModel) renderHabitRow(idx int, rh score.RankedHabit) string {
	now := time.Now()
	done := rh.Habit.Completions[store.DayKey(now)]

	check := "[ ]"
	if done {
		check = successStyle.Render("[x]")
	}

	tier := tierStyle(string(rh.Result.Tier)).Render(fmt.Sprintf("%3d %-6s", rh.Result.Score, rh.Result.Tier))
	streak := streakFor(&rh.Habit, now)
	line := fmt.Sprintf("  %s %s  %-24s %s  %s", check, tier, truncate(rh.Habit.Name, 24), formatStreak(streak), mutedStyle.Render(rh.Habit.Category))

	if idx == m.cursor {
		return selectedItemStyle.Render("▸" + line[1:])
	}
	return normalItemStyle.Render(line)
}

func (m dashboardModel) renderTodoRow(idx int, rt score.RankedTodo) string {
	now := time.Now()
	done := rt.Todo.Completions[store.DayKey(now)]

	check := "[ ]"
	if done {
		check = successStyle.Render("[x]")
	}

	tier := tierStyle(string(rt.Result.Tier)).Render(fmt.Sprintf("%3d %-6s", rt.Result.Score, rt.Result.Tier))
	due := ""
	if rt.Todo.DueDate != nil {
		due = mutedStyle.Render("due " + formatDay(*rt.Todo.DueDate))
	}
	line := fmt.Sprintf("  %s %s  %-24s %s", check, tier, truncate(rt.Todo.Name, 24), due)

	if idx == m.cursor {
		return selectedItemStyle.Render("▸" + line[1:])
	}
	return normalItemStyle.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
