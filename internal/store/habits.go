package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateHabit(name, notes, category string, difficulty Difficulty, days []time.Weekday) (*Habit, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO habits (id, name, notes, category, difficulty, scheduled_days, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, notes, category, string(difficulty), encodeDays(days), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return s.GetHabit(id)
}

func (s *Store) GetHabit(id string) (*Habit, error) {
	h := &Habit{}
	var createdAt, daysStr, difficulty string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, notes, category, difficulty, scheduled_days, archived, created_at
		 FROM habits WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.Notes, &h.Category, &difficulty, &daysStr, &archived, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get habit %s: %w", id, err)
	}
	h.Difficulty = Difficulty(difficulty)
	h.ScheduledDays = decodeDays(daysStr)
	h.Archived = archived == 1
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	completions, err := s.habitCompletions(id)
	if err != nil {
		return nil, err
	}
	h.Completions = completions
	return h, nil
}

func (s *Store) habitCompletions(habitID string) (map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT day, completed FROM habit_completions WHERE habit_id = ?`, habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("habit completions %s: %w", habitID, err)
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

func (s *Store) ListHabits(includeArchived bool) ([]Habit, error) {
	query := `SELECT id, name, notes, category, difficulty, scheduled_days, archived, created_at FROM habits`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var createdAt, daysStr, difficulty string
		var archived int
		if err := rows.Scan(&h.ID, &h.Name, &h.Notes, &h.Category, &difficulty, &daysStr, &archived, &createdAt); err != nil {
			return nil, err
		}
		h.Difficulty = Difficulty(difficulty)
		h.ScheduledDays = decodeDays(daysStr)
		h.Archived = archived == 1
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		h.Completions = make(map[string]bool)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.fillHabitCompletions(habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// fillHabitCompletions loads all completion rows in one pass rather than
// one query per habit.
func (s *Store) fillHabitCompletions(habits []Habit) error {
	if len(habits) == 0 {
		return nil
	}
	byID := make(map[string]*Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = &habits[i]
	}

	rows, err := s.db.Query(`SELECT habit_id, day, completed FROM habit_completions`)
	if err != nil {
		return fmt.Errorf("load habit completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var habitID, day string
		var completed int
		if err := rows.Scan(&habitID, &day, &completed); err != nil {
			return err
		}
		if h, ok := byID[habitID]; ok {
			h.Completions[day] = completed == 1
		}
	}
	return rows.Err()
}

func (s *Store) UpdateHabit(id, name, notes, category string, difficulty Difficulty, days []time.Weekday) error {
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, notes = ?, category = ?, difficulty = ?, scheduled_days = ? WHERE id = ?`,
		name, notes, category, string(difficulty), encodeDays(days), id,
	)
	return err
}

func (s *Store) ArchiveHabit(id string) error {
	_, err := s.db.Exec(`UPDATE habits SET archived = 1 WHERE id = ?`, id)
	return err
}

func (s *Store) RestoreHabit(id string) error {
	_, err := s.db.Exec(`UPDATE habits SET archived = 0 WHERE id = ?`, id)
	return err
}

// DeleteHabit removes the habit and, via cascade, its completions, goals
// and group memberships.
func (s *Store) DeleteHabit(id string) error {
	_, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	return err
}

// ToggleHabitCompletion flips the completion entry for the given day and
// returns the new value.
func (s *Store) ToggleHabitCompletion(habitID, day string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT completed FROM habit_completions WHERE habit_id = ? AND day = ?`,
		habitID, day,
	).Scan(&exists)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			`INSERT INTO habit_completions (habit_id, day, completed) VALUES (?, ?, 1)`,
			habitID, day,
		)
		if err != nil {
			return false, fmt.Errorf("toggle habit completion: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("toggle habit completion: %w", err)
	}

	next := 0
	if exists == 0 {
		next = 1
	}
	_, err = s.db.Exec(
		`UPDATE habit_completions SET completed = ? WHERE habit_id = ? AND day = ?`,
		next, habitID, day,
	)
	if err != nil {
		return false, fmt.Errorf("toggle habit completion: %w", err)
	}
	return next == 1, nil
}

// SetHabitCompletion writes an explicit completion value for a day.
func (s *Store) SetHabitCompletion(habitID, day string, done bool) error {
	v := 0
	if done {
		v = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO habit_completions (habit_id, day, completed) VALUES (?, ?, ?)
		 ON CONFLICT(habit_id, day) DO UPDATE SET completed = excluded.completed`,
		habitID, day, v,
	)
	return err
}
