package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportHabits writes a batch of habits (including their completion
// history and archived flags) and optional achievement states in a
// single transaction, so a failed import leaves nothing behind.
// Habits without an ID get a fresh one; habits with a known ID are
// replaced wholesale.
func (s *Store) ImportHabits(habits []Habit, states []AchievementState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	for i := range habits {
		h := &habits[i]
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		createdAt := h.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		archived := 0
		if h.Archived {
			archived = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO habits (id, name, notes, category, difficulty, scheduled_days, archived, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, notes = excluded.notes, category = excluded.category,
				difficulty = excluded.difficulty, scheduled_days = excluded.scheduled_days,
				archived = excluded.archived`,
			h.ID, h.Name, h.Notes, h.Category, string(h.Difficulty),
			encodeDays(h.ScheduledDays), archived, createdAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("import habit %q: %w", h.Name, err)
		}

		if _, err := tx.Exec(`DELETE FROM habit_completions WHERE habit_id = ?`, h.ID); err != nil {
			return fmt.Errorf("clear completions %q: %w", h.Name, err)
		}
		for day, done := range h.Completions {
			v := 0
			if done {
				v = 1
			}
			if _, err := tx.Exec(
				`INSERT INTO habit_completions (habit_id, day, completed) VALUES (?, ?, ?)`,
				h.ID, day, v,
			); err != nil {
				return fmt.Errorf("import completion %q %s: %w", h.Name, day, err)
			}
		}
	}

	for _, st := range states {
		unlocked := 0
		var unlockedAt any
		if st.Unlocked {
			unlocked = 1
			at := time.Now().UTC()
			if st.UnlockedAt != nil {
				at = st.UnlockedAt.UTC()
			}
			unlockedAt = at.Format(time.RFC3339)
		}
		if _, err := tx.Exec(
			`INSERT INTO achievements (id, unlocked, progress, unlocked_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				unlocked    = MAX(achievements.unlocked, excluded.unlocked),
				progress    = MAX(achievements.progress, excluded.progress),
				unlocked_at = COALESCE(achievements.unlocked_at, excluded.unlocked_at)`,
			st.ID, unlocked, st.Progress, unlockedAt,
		); err != nil {
			return fmt.Errorf("import achievement %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
