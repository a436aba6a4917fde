package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateGoal(habitID string, targetStreak int, targetDate time.Time) (*Goal, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO goals (id, habit_id, target_streak, target_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, habitID, targetStreak, targetDate.UTC().Format(time.RFC3339), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetGoal(id)
}

func (s *Store) GetGoal(id string) (*Goal, error) {
	g := &Goal{}
	var targetDate, createdAt string
	err := s.db.QueryRow(
		`SELECT id, habit_id, target_streak, target_date, created_at FROM goals WHERE id = ?`, id,
	).Scan(&g.ID, &g.HabitID, &g.TargetStreak, &targetDate, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	g.TargetDate, _ = time.Parse(time.RFC3339, targetDate)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return g, nil
}

func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(
		`SELECT id, habit_id, target_streak, target_date, created_at FROM goals ORDER BY target_date`,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		var targetDate, createdAt string
		if err := rows.Scan(&g.ID, &g.HabitID, &g.TargetStreak, &targetDate, &createdAt); err != nil {
			return nil, err
		}
		g.TargetDate, _ = time.Parse(time.RFC3339, targetDate)
		g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) DeleteGoal(id string) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	return err
}
