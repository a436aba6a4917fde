package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveAchievementState upserts one achievement's state. Unlock is
// monotonic: a previously unlocked row stays unlocked and keeps its
// original unlock timestamp, and progress never decreases.
func (s *Store) SaveAchievementState(st AchievementState) error {
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
	_, err := s.db.Exec(
		`INSERT INTO achievements (id, unlocked, progress, unlocked_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			unlocked    = MAX(achievements.unlocked, excluded.unlocked),
			progress    = MAX(achievements.progress, excluded.progress),
			unlocked_at = COALESCE(achievements.unlocked_at, excluded.unlocked_at)`,
		st.ID, unlocked, st.Progress, unlockedAt,
	)
	if err != nil {
		return fmt.Errorf("save achievement %s: %w", st.ID, err)
	}
	return nil
}

// UnlockAchievement force-unlocks an achievement, used for social-type
// achievements triggered by an explicit user action rather than stats.
func (s *Store) UnlockAchievement(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO achievements (id, unlocked, progress, unlocked_at) VALUES (?, 1, 100, ?)
		 ON CONFLICT(id) DO UPDATE SET
			unlocked    = 1,
			progress    = MAX(achievements.progress, 100),
			unlocked_at = COALESCE(achievements.unlocked_at, excluded.unlocked_at)`,
		id, now,
	)
	if err != nil {
		return fmt.Errorf("unlock achievement %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListAchievementStates() ([]AchievementState, error) {
	rows, err := s.db.Query(`SELECT id, unlocked, progress, unlocked_at FROM achievements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var states []AchievementState
	for rows.Next() {
		var st AchievementState
		var unlocked int
		var unlockedAt sql.NullString
		if err := rows.Scan(&st.ID, &unlocked, &st.Progress, &unlockedAt); err != nil {
			return nil, err
		}
		st.Unlocked = unlocked == 1
		if unlockedAt.Valid {
			t, _ := time.Parse(time.RFC3339, unlockedAt.String)
			st.UnlockedAt = &t
		}
		states = append(states, st)
	}
	return states, rows.Err()
}
