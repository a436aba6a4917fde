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
)

var priorityNames = []string{
	string(store.PriorityLow),
	string(store.PriorityMedium),
	string(store.PriorityHigh),
}

var energyNames = []string{
	string(store.EnergyLow),
	string(store.EnergyMedium),
	string(store.EnergyHigh),
}

// tasksModel lists todos with their priority scores and handles
// create/edit forms.
type tasksModel struct {
	store  *store.Store
	width  int
	height int

	todos  []score.RankedTodo
	cursor int

	formActive bool
	formType   string
	editingID  string
	form       *huh.Form

	formName     *string
	formCategory *string
	formPriority *string
	formEnergy   *string
	formDue      *string
	formNotes    *string
}

func newTasksModel(s *store.Store) tasksModel {
	name := ""
	category := ""
	priority := ""
	energy := ""
	due := ""
	notes := ""
	return tasksModel{
		store:        s,
		formName:     &name,
		formCategory: &category,
		formPriority: &priority,
		formEnergy:   &energy,
		formDue:      &due,
		formNotes:    &notes,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		todos, err := s.ListTodos(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return todosDataMsg{todos: score.RankTodos(todos, time.Now(), score.DefaultTaskWeights())}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todosDataMsg:
		m.todos = msg.todos
		if m.cursor >= len(m.todos) {
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
			if m.cursor < len(m.todos)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.todos) {
				t := m.todos[m.cursor].Todo
				s := m.store
				return m, func() tea.Msg {
					done, err := s.ToggleTodoCompletion(t.ID, store.DayKey(time.Now()))
					if err != nil {
						return statusMsg{text: fmt.Sprintf("Toggle error: %v", err), isError: true}
					}
					return habitToggledMsg{name: t.Name, done: done}
				}
			}
		case key.Matches(msg, keys.New):
			return m.showNewForm()
		case key.Matches(msg, keys.Edit):
			if m.cursor < len(m.todos) {
				return m.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.todos) {
				t := m.todos[m.cursor].Todo
				s := m.store
				return m, func() tea.Msg {
					if err := s.ArchiveTodo(t.ID); err != nil {
						return statusMsg{text: fmt.Sprintf("Archive error: %v", err), isError: true}
					}
					return statusMsg{text: "Archived: " + t.Name}
				}
			}
		}
	}
	return m, nil
}

func (m tasksModel) showNewForm() (tasksModel, tea.Cmd) {
	*m.formName = ""
	*m.formCategory = score.Categories()[0]
	*m.formPriority = string(store.PriorityMedium)
	*m.formEnergy = string(store.EnergyMedium)
	*m.formDue = ""
	*m.formNotes = ""
	m.formType = "new"
	return m.buildForm()
}

func (m tasksModel) showEditForm() (tasksModel, tea.Cmd) {
	t := m.todos[m.cursor].Todo
	*m.formName = t.Name
	*m.formCategory = t.Category
	*m.formPriority = string(t.Priority)
	*m.formEnergy = string(t.Energy)
	if t.DueDate != nil {
		*m.formDue = t.DueDate.Format("2006-01-02")
	} else {
		*m.formDue = ""
	}
	*m.formNotes = t.Notes
	m.formType = "edit"
	m.editingID = t.ID
	return m.buildForm()
}

func (m tasksModel) buildForm() (tasksModel, tea.Cmd) {
	catOptions := make([]huh.Option[string], 0)
	for _, c := range score.Categories() {
		catOptions = append(catOptions, huh.NewOption(c, c))
	}
	prioOptions := make([]huh.Option[string], len(priorityNames))
	for i, p := range priorityNames {
		prioOptions[i] = huh.NewOption(p, p)
	}
	energyOptions := make([]huh.Option[string], len(energyNames))
	for i, e := range energyNames {
		energyOptions[i] = huh.NewOption(e, e)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(m.formName),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(m.formPriority),
			huh.NewSelect[string]().Title("Energy Level").Options(energyOptions...).Value(m.formEnergy),
			huh.NewInput().Title("Due Date (YYYY-MM-DD, blank for none)").Value(m.formDue).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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

		var due *time.Time
		if *m.formDue != "" {
			if d, err := time.Parse("2006-01-02", *m.formDue); err == nil {
				due = &d
			}
		}
		prio := store.Priority(*m.formPriority)
		energy := store.Energy(*m.formEnergy)
		s := m.store

		switch m.formType {
		case "new":
			name, notes, cat := *m.formName, *m.formNotes, *m.formCategory
			return m, tea.Batch(func() tea.Msg {
				if _, err := s.CreateTodo(name, notes, cat, prio, energy, due); err != nil {
					return statusMsg{text: fmt.Sprintf("Create error: %v", err), isError: true}
				}
				return statusMsg{text: "Created: " + name}
			}, m.refresh())
		case "edit":
			id, name, notes, cat := m.editingID, *m.formName, *m.formNotes, *m.formCategory
			return m, tea.Batch(func() tea.Msg {
				if err := s.UpdateTodo(id, name, notes, cat, prio, energy, due); err != nil {
					return statusMsg{text: fmt.Sprintf("Update error: %v", err), isError: true}
				}
				return statusMsg{text: "Updated: " + name}
			}, m.refresh())
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		return m.form.View()
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Tasks"))
	rows = append(rows, "")

	if len(m.todos) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks yet. Press n to create one."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	day := store.DayKey(time.Now())
	for i, rt := range m.todos {
		t := rt.Todo
		check := "[ ]"
		if t.Completions[day] {
			check = successStyle.Render("[x]")
		}

		tier := tierStyle(string(rt.Result.Tier)).Render(fmt.Sprintf("%3d %-6s", rt.Result.Score, rt.Result.Tier))
		due := ""
		if t.DueDate != nil {
			due = "due " + formatDay(*t.DueDate)
		}
		line := fmt.Sprintf("  %s %s %-24s %-8s %s  %s",
			check, tier, truncate(t.Name, 24), t.Priority, mutedStyle.Render(due), mutedStyle.Render(t.Category))

		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("▸"+line[1:]))
		} else {
			rows = append(rows, normalItemStyle.Render(line))
		}

		if i == m.cursor && rt.Result.Reason() != "" {
			rows = append(rows, mutedStyle.Render("      "+rt.Result.Reason()))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
