package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cadence/internal/score"
	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

var difficultyNames = []string{
	string(store.DifficultyEasy),
	string(store.DifficultyMedium),
	string(store.DifficultyHard),
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// habitsModel lists all habits with streaks and handles create/edit forms.
type habitsModel struct {
	store  *store.Store
	width  int
	height int

	habits []store.Habit
	cursor int

	formActive bool
	formType   string
	editingID  string
	form       *huh.Form

	formName       *string
	formCategory   *string
	formDifficulty *string
	formDays       *[]string
	formNotes      *string
}

func newHabitsModel(s *store.Store) habitsModel {
	name := ""
	category := ""
	difficulty := ""
	days := []string{}
	notes := ""
	return habitsModel{
		store:          s,
		formName:       &name,
		formCategory:   &category,
		formDifficulty: &difficulty,
		formDays:       &days,
		formNotes:      &notes,
	}
}

func (m *habitsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m habitsModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		habits, err := s.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return habitsDataMsg{habits: habits}
	}
}

func (m habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		m.habits = msg.habits
		if m.cursor >= len(m.habits) {
			m.cursor = 0
		}
		return m, nil

	case habitToggledMsg:
		return m, m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.habits)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.habits) {
				h := m.habits[m.cursor]
				s := m.store
				return m, func() tea.Msg {
					done, err := s.ToggleHabitCompletion(h.ID, store.DayKey(time.Now()))
					if err != nil {
						return statusMsg{text: fmt.Sprintf("Toggle error: %v", err), isError: true}
					}
					if err := refreshAchievements(s); err != nil {
						return statusMsg{text: fmt.Sprintf("Achievement error: %v", err), isError: true}
					}
					return habitToggledMsg{name: h.Name, done: done}
				}
			}
		case key.Matches(msg, keys.New):
			return m.showNewForm()
		case key.Matches(msg, keys.Edit):
			if m.cursor < len(m.habits) {
				return m.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.habits) {
				h := m.habits[m.cursor]
				s := m.store
				return m, func() tea.Msg {
					if err := s.ArchiveHabit(h.ID); err != nil {
						return statusMsg{text: fmt.Sprintf("Archive error: %v", err), isError: true}
					}
					return statusMsg{text: "Archived: " + h.Name}
				}
			}
		}
	}
	return m, nil
}

func (m habitsModel) showNewForm() (habitsModel, tea.Cmd) {
	*m.formName = ""
	*m.formCategory = score.Categories()[0]
	*m.formDifficulty = string(store.DifficultyMedium)
	*m.formDays = []string{}
	*m.formNotes = ""
	m.formType = "new"
	return m.buildForm()
}

func (m habitsModel) showEditForm() (habitsModel, tea.Cmd) {
	h := m.habits[m.cursor]
	*m.formName = h.Name
	*m.formCategory = h.Category
	*m.formDifficulty = string(h.Difficulty)
	days := make([]string, 0, len(h.ScheduledDays))
	for _, d := range h.ScheduledDays {
		days = append(days, d.String())
	}
	*m.formDays = days
	*m.formNotes = h.Notes
	m.formType = "edit"
	m.editingID = h.ID
	return m.buildForm()
}

func (m habitsModel) buildForm() (habitsModel, tea.Cmd) {
	catOptions := make([]huh.Option[string], 0)
	for _, c := range score.Categories() {
		catOptions = append(catOptions, huh.NewOption(c, c))
	}
	diffOptions := make([]huh.Option[string], len(difficultyNames))
	for i, d := range difficultyNames {
		diffOptions[i] = huh.NewOption(d, d)
	}
	dayOptions := make([]huh.Option[string], len(weekdayOrder))
	for i, d := range weekdayOrder {
		dayOptions[i] = huh.NewOption(d.String(), d.String())
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(m.formName),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewSelect[string]().Title("Difficulty").Options(diffOptions...).Value(m.formDifficulty),
			huh.NewMultiSelect[string]().Title("Scheduled Days (empty = every day)").Options(dayOptions...).Value(m.formDays),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formName == "" {
			return m, m.refresh()
		}

		days := parseDays(*m.formDays)
		diff := store.Difficulty(*m.formDifficulty)
		s := m.store

		switch m.formType {
		case "new":
			name, notes, cat := *m.formName, *m.formNotes, *m.formCategory
			return m, tea.Batch(func() tea.Msg {
				if _, err := s.CreateHabit(name, notes, cat, diff, days); err != nil {
					return statusMsg{text: fmt.Sprintf("Create error: %v", err), isError: true}
				}
				return statusMsg{text: "Created: " + name}
			}, m.refresh())
		case "edit":
			id, name, notes, cat := m.editingID, *m.formName, *m.formNotes, *m.formCategory
			return m, tea.Batch(func() tea.Msg {
				if err := s.UpdateHabit(id, name, notes, cat, diff, days); err != nil {
					return statusMsg{text: fmt.Sprintf("Update error: %v", err), isError: true}
				}
				return statusMsg{text: "Updated: " + name}
			}, m.refresh())
		}
		return m, m.refresh()
	}

	return m, cmd
}

func parseDays(names []string) []time.Weekday {
	var days []time.Weekday
	for _, n := range names {
		for _, d := range weekdayOrder {
			if d.String() == n {
				days = append(days, d)
			}
		}
	}
	return days
}

func (m habitsModel) view() string {
	if m.formActive && m.form != nil {
		return m.form.View()
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Habits"))
	rows = append(rows, "")

	if len(m.habits) == 0 {
		rows = append(rows, mutedStyle.Render("  No habits yet. Press n to create one."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	now := time.Now()
	day := store.DayKey(now)
	for i, h := range m.habits {
		check := "[ ]"
		if h.Completions[day] {
			check = successStyle.Render("[x]")
		}

		sched := "every day"
		if len(h.ScheduledDays) > 0 {
			sched = fmt.Sprintf("%d days/week", len(h.ScheduledDays))
		}

		cur := streak.Current(h.Completions, now)
		best := streak.Best(h.Completions)
		line := fmt.Sprintf("  %s %-24s %-10s %s  best %d  %s",
			check, truncate(h.Name, 24), h.Category, formatStreak(cur), best, mutedStyle.Render(sched))

		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("▸"+line[1:]))
		} else {
			rows = append(rows, normalItemStyle.Render(line))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
