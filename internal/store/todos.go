package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateTodo(name, notes, category string, priority Priority, energy Energy, dueDate *time.Time) (*Todo, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	var due any
	if dueDate != nil {
		due = dueDate.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`INSERT INTO todos (id, name, notes, category, priority, energy, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, notes, category, string(priority), string(energy), due, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetTodo(id)
}

func (s *Store) GetTodo(id string) (*Todo, error) {
	t := &Todo{}
	var createdAt, priority, energy string
	var dueDate sql.NullString
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, notes, category, priority, energy, due_date, archived, created_at
		 FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Notes, &t.Category, &priority, &energy, &dueDate, &archived, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get todo %s: %w", id, err)
	}
	t.Priority = Priority(priority)
	t.Energy = Energy(energy)
	t.Archived = archived == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if dueDate.Valid {
		d, _ := time.Parse(time.RFC3339, dueDate.String)
		t.DueDate = &d
	}

	completions, err := s.todoCompletions(id)
	if err != nil {
		return nil, err
	}
	t.Completions = completions
	return t, nil
}

func (s *Store) todoCompletions(todoID string) (map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT day, completed FROM todo_completions WHERE todo_id = ?`, todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("todo completions %s: %w", todoID, err)
	}
	defer rows.Close()

	m := make(map[string]bool)
	for rows.Next() {
		var day string
		var completed int
		if err := rows.Scan(&day, &completed); err != nil {
			return nil, err
		}
		m[day] = completed == 1
	}
	return m, rows.Err()
}

func (s *Store) ListTodos(includeArchived bool) ([]Todo, error) {
	query := `SELECT id, name, notes, category, priority, energy, due_date, archived, created_at FROM todos`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var t Todo
		var createdAt, priority, energy string
		var dueDate sql.NullString
		var archived int
		if err := rows.Scan(&t.ID, &t.Name, &t.Notes, &t.Category, &priority, &energy, &dueDate, &archived, &createdAt); err != nil {
			return nil, err
		}
		t.Priority = Priority(priority)
		t.Energy = Energy(energy)
		t.Archived = archived == 1
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if dueDate.Valid {
			d, _ := time.Parse(time.RFC3339, dueDate.String)
			t.DueDate = &d
		}
		t.Completions = make(map[string]bool)
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.fillTodoCompletions(todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Store) fillTodoCompletions(todos []Todo) error {
	if len(todos) == 0 {
		return nil
	}
	byID := make(map[string]*Todo, len(todos))
	for i := range todos {
		byID[todos[i].ID] = &todos[i]
	}

	rows, err := s.db.Query(`SELECT todo_id, day, completed FROM todo_completions`)
	if err != nil {
		return fmt.Errorf("load todo completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var todoID, day string
		var completed int
		if err := rows.Scan(&todoID, &day, &completed); err != nil {
			return err
		}
		if t, ok := byID[todoID]; ok {
			t.Completions[day] = completed == 1
		}
	}
	return rows.Err()
}

func (s *Store) UpdateTodo(id, name, notes, category string, priority Priority, energy Energy, dueDate *time.Time) error {
	var due any
	if dueDate != nil {
		due = dueDate.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`UPDATE todos SET name = ?, notes = ?, category = ?, priority = ?, energy = ?, due_date = ? WHERE id = ?`,
		name, notes, category, string(priority), string(energy), due, id,
	)
	return err
}

func (s *Store) ArchiveTodo(id string) error {
	_, err := s.db.Exec(`UPDATE todos SET archived = 1 WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteTodo(id string) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	return err
}

// ToggleTodoCompletion flips the completion entry for the given day and
// returns the new value.
func (s *Store) ToggleTodoCompletion(todoID, day string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT completed FROM todo_completions WHERE todo_id = ? AND day = ?`,
		todoID, day,
	).Scan(&exists)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			`INSERT INTO todo_completions (todo_id, day, completed) VALUES (?, ?, 1)`,
			todoID, day,
		)
		if err != nil {
			return false, fmt.Errorf("toggle todo completion: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("toggle todo completion: %w", err)
	}

	next := 0
	if exists == 0 {
		next = 1
	}
	_, err = s.db.Exec(
		`UPDATE todo_completions SET completed = ? WHERE todo_id = ? AND day = ?`,
		next, todoID, day,
	)
	if err != nil {
		return false, fmt.Errorf("toggle todo completion: %w", err)
	}
	return next == 1, nil
}
