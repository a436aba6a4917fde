package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cadence/internal/export"
	"github.com/sadopc/cadence/internal/store"
)

var settingLabels = []struct {
	key   string
	label string
}{
	{"theme_mode", "Theme"},
	{"week_start", "Week starts on"},
	{"ai_prioritization", "Smart prioritization"},
	{"reminders_enabled", "Reminders"},
	{"reminder_time", "Reminder time"},
	{"last_cloud_backup", "Last cloud backup"},
}

// settingsModel edits stored preferences and runs backup/import.
type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings map[string]string
	cursor   int

	formActive bool
	form       *huh.Form
	formValue  *string
	editingKey string

	backingUp bool
}

func newSettingsModel(s *store.Store) settingsModel {
	v := ""
	return settingsModel{store: s, formValue: &v}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		settings, err := s.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.settings = msg.settings
		return m, nil

	case backupDoneMsg:
		m.backingUp = false
		return m, m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(settingLabels)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showEditForm()
		case key.Matches(msg, keys.Backup):
			if m.backingUp {
				return m, nil
			}
			m.backingUp = true
			return m, m.runBackup()
		case key.Matches(msg, keys.Import):
			return m, m.runImport()
		}
	}
	return m, nil
}

// runBackup simulates a cloud sync, then stamps the completion time.
func (m settingsModel) runBackup() tea.Cmd {
	s := m.store
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		stamp := time.Now().Format(time.RFC3339)
		if err := s.SetSetting("last_cloud_backup", stamp); err != nil {
			return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
		}
		return backupDoneMsg{}
	})
}

// runImport loads ~/cadence-import.json or ~/cadence-import.csv,
// whichever exists, and merges it into the store.
func (m settingsModel) runImport() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}

		jsonPath := filepath.Join(home, "cadence-import.json")
		csvPath := filepath.Join(home, "cadence-import.csv")

		var habits []store.Habit
		var states []store.AchievementState

		switch {
		case fileExists(jsonPath):
			habits, states, err = export.FromJSON(jsonPath)
		case fileExists(csvPath):
			habits, err = export.FromCSV(csvPath, time.Now())
		default:
			return statusMsg{text: "No cadence-import.json or .csv in home dir", isError: true}
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}

		if err := s.ImportHabits(habits, states); err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{count: len(habits)}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m settingsModel) showEditForm() (settingsModel, tea.Cmd) {
	setting := settingLabels[m.cursor]
	if setting.key == "last_cloud_backup" {
		return m, nil // read-only
	}

	*m.formValue = m.settings[setting.key]
	m.editingKey = setting.key

	var field huh.Field
	switch setting.key {
	case "theme_mode":
		field = huh.NewSelect[string]().Title(setting.label).
			Options(huh.NewOption("dark", "dark"), huh.NewOption("light", "light")).
			Value(m.formValue)
	case "week_start":
		field = huh.NewSelect[string]().Title(setting.label).
			Options(huh.NewOption("monday", "monday"), huh.NewOption("sunday", "sunday")).
			Value(m.formValue)
	case "ai_prioritization", "reminders_enabled":
		field = huh.NewSelect[string]().Title(setting.label).
			Options(huh.NewOption("on", "1"), huh.NewOption("off", "0")).
			Value(m.formValue)
	case "reminder_time":
		field = huh.NewInput().Title(setting.label + " (HH:MM)").Value(m.formValue).
			Validate(func(s string) error {
				if _, err := time.Parse("15:04", s); err != nil {
					return fmt.Errorf("use HH:MM")
				}
				return nil
			})
	default:
		field = huh.NewInput().Title(setting.label).Value(m.formValue)
	}

	m.form = huh.NewForm(huh.NewGroup(field)).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		s := m.store
		keyName, value := m.editingKey, *m.formValue
		return m, tea.Batch(func() tea.Msg {
			if err := s.SetSetting(keyName, value); err != nil {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
			return statusMsg{text: "Saved"}
		}, m.refresh())
	}

	return m, cmd
}

func (m settingsModel) view() string {
	if m.formActive && m.form != nil {
		return m.form.View()
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Settings"))
	rows = append(rows, "")

	for i, setting := range settingLabels {
		value := m.settings[setting.key]
		switch setting.key {
		case "ai_prioritization", "reminders_enabled":
			if value == "1" {
				value = "on"
			} else {
				value = "off"
			}
		case "last_cloud_backup":
			if value == "" {
				value = "never"
			} else if t, err := time.Parse(time.RFC3339, value); err == nil {
				value = t.Format("Jan 02 15:04")
			}
		}

		line := fmt.Sprintf("  %-22s %s", setting.label, highlightStyle.Render(value))
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("▸"+line[1:]))
		} else {
			rows = append(rows, normalItemStyle.Render(line))
		}
	}

	rows = append(rows, "")
	if m.backingUp {
		rows = append(rows, warningStyle.Render("  Backing up..."))
	} else {
		rows = append(rows, mutedStyle.Render("  b: cloud backup   i: import from home dir   x: export"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
