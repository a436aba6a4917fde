package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cadence/internal/achieve"
	"github.com/sadopc/cadence/internal/goal"
	"github.com/sadopc/cadence/internal/store"
)

// goalsModel shows streak goals alongside the achievement gallery.
type goalsModel struct {
	store  *store.Store
	width  int
	height int

	progress     []goal.Progress
	achievements []achieve.Achievement
	habits       []store.Habit
	cursor       int

	formActive bool
	form       *huh.Form

	formHabit  *string
	formStreak *string
	formDate   *string
}

func newGoalsModel(s *store.Store) goalsModel {
	habit := ""
	streakTarget := ""
	date := ""
	return goalsModel{
		store:      s,
		formHabit:  &habit,
		formStreak: &streakTarget,
		formDate:   &date,
	}
}

func (m *goalsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m goalsModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		habits, err := s.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		goals, err := s.ListGoals()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		previous, err := s.ListAchievementStates()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}

		all, err := s.ListHabits(true)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		achievements := achieve.Evaluate(achieve.StatsFrom(all), previous)

		return goalsDataMsg{
			progress:     goal.Sync(goals, habits, time.Now()),
			achievements: achievements,
			habits:       habits,
		}
	}
}

func (m goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		m.progress = msg.progress
		m.achievements = msg.achievements
		m.habits = msg.habits
		if m.cursor >= len(m.progress) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.progress)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			if len(m.habits) == 0 {
				return m, func() tea.Msg {
					return statusMsg{text: "Create a habit first", isError: true}
				}
			}
			return m.showNewForm()
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.progress) {
				g := m.progress[m.cursor].Goal
				s := m.store
				return m, tea.Batch(func() tea.Msg {
					if err := s.DeleteGoal(g.ID); err != nil {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
					return statusMsg{text: "Goal removed"}
				}, m.refresh())
			}
		case key.Matches(msg, keys.Share):
			s := m.store
			return m, tea.Batch(func() tea.Msg {
				if err := s.UnlockAchievement("share_first"); err != nil {
					return statusMsg{text: fmt.Sprintf("Share error: %v", err), isError: true}
				}
				return statusMsg{text: "Progress shared 🎉"}
			}, m.refresh())
		}
	}
	return m, nil
}

func (m goalsModel) showNewForm() (goalsModel, tea.Cmd) {
	*m.formHabit = m.habits[0].ID
	*m.formStreak = "7"
	*m.formDate = time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	habitOptions := make([]huh.Option[string], len(m.habits))
	for i, h := range m.habits {
		habitOptions[i] = huh.NewOption(h.Name, h.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Habit").Options(habitOptions...).Value(m.formHabit),
			huh.NewInput().Title("Target Streak (days)").Value(m.formStreak).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
			huh.NewInput().Title("Target Date (YYYY-MM-DD)").Value(m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
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

		target, _ := strconv.Atoi(*m.formStreak)
		date, err := time.Parse("2006-01-02", *m.formDate)
		if err != nil {
			return m, m.refresh()
		}
		habitID := *m.formHabit
		s := m.store

		return m, tea.Batch(func() tea.Msg {
			if _, err := s.CreateGoal(habitID, target, date); err != nil {
				return statusMsg{text: fmt.Sprintf("Create error: %v", err), isError: true}
			}
			return statusMsg{text: "Goal created"}
		}, m.refresh())
	}

	return m, cmd
}

func (m goalsModel) view() string {
	if m.formActive && m.form != nil {
		return m.form.View()
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Streak Goals"))
	rows = append(rows, "")

	if len(m.progress) == 0 {
		rows = append(rows, mutedStyle.Render("  No goals yet. Press n to set one."))
	}
	for i, p := range m.progress {
		rows = append(rows, m.renderGoalRow(i, p))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  Achievements (%d pts)", achieve.TotalPoints(m.achievements))))
	rows = append(rows, "")
	for _, a := range m.achievements {
		rows = append(rows, renderAchievement(a))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: share progress"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m goalsModel) renderGoalRow(idx int, p goal.Progress) string {
	status := mutedStyle.Render(fmt.Sprintf("%d/%d", p.Current, p.Goal.TargetStreak))
	switch {
	case p.Completed && p.Expired && p.Current < p.Goal.TargetStreak:
		status = warningStyle.Render("expired")
	case p.Completed:
		status = successStyle.Render("✓ done")
	}

	bar := progressBar(p.Current, p.Goal.TargetStreak, 20)
	line := fmt.Sprintf("  %-20s %s %s  by %s",
		truncate(p.HabitName, 20), bar, status, formatDay(p.Goal.TargetDate))

	if idx == m.cursor {
		return selectedItemStyle.Render("▸" + line[1:])
	}
	return normalItemStyle.Render(line)
}

func renderAchievement(a achieve.Achievement) string {
	if a.Unlocked {
		when := ""
		if a.UnlockedAt != nil {
			when = " " + formatDay(*a.UnlockedAt)
		}
		return successStyle.Render(fmt.Sprintf("  %s %-22s", a.Icon, a.Name)) +
			mutedStyle.Render(fmt.Sprintf("%s · %d pts%s", a.Rarity, a.Points, when))
	}
	return mutedStyle.Render(fmt.Sprintf("  🔒 %-22s%s · %.0f%%", a.Name, a.Rarity, a.Progress))
}

func progressBar(cur, target, width int) string {
	if target <= 0 {
		target = 1
	}
	filled := cur * width / target
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return highlightStyle.Render(bar)
}
