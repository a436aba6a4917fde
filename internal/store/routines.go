package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateRoutine(name, timeWindow string, habitIDs []string) (*Routine, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin routine tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO routines (id, name, time_window, created_at) VALUES (?, ?, ?, ?)`,
		id, name, timeWindow, now,
	); err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}
	for i, hid := range habitIDs {
		if _, err := tx.Exec(
			`INSERT INTO routine_habits (routine_id, habit_id, position) VALUES (?, ?, ?)`,
			id, hid, i,
		); err != nil {
			return nil, fmt.Errorf("insert routine habit: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit routine: %w", err)
	}
	return s.GetRoutine(id)
}

func (s *Store) GetRoutine(id string) (*Routine, error) {
	r := &Routine{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, time_window, created_at FROM routines WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.TimeWindow, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get routine %s: %w", id, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.Query(
		`SELECT habit_id FROM routine_habits WHERE routine_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("routine habits %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var hid string
		if err := rows.Scan(&hid); err != nil {
			return nil, err
		}
		r.HabitIDs = append(r.HabitIDs, hid)
	}
	return r, rows.Err()
}

func (s *Store) ListRoutines() ([]Routine, error) {
	rows, err := s.db.Query(`SELECT id FROM routines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var routines []Routine
	for _, id := range ids {
		r, err := s.GetRoutine(id)
		if err != nil {
			return nil, err
		}
		routines = append(routines, *r)
	}
	return routines, nil
}

func (s *Store) DeleteRoutine(id string) error {
	_, err := s.db.Exec(`DELETE FROM routines WHERE id = ?`, id)
	return err
}

// LogRoutineSession records (or overwrites) the session result for a day.
func (s *Store) LogRoutineSession(routineID, day string, completed, total int) error {
	_, err := s.db.Exec(
		`INSERT INTO routine_sessions (routine_id, day, completed_count, total_count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(routine_id, day) DO UPDATE SET
			completed_count = excluded.completed_count,
			total_count     = excluded.total_count`,
		routineID, day, completed, total,
	)
	if err != nil {
		return fmt.Errorf("log routine session: %w", err)
	}
	return nil
}

func (s *Store) GetRoutineSession(routineID, day string) (*RoutineSession, error) {
	sess := &RoutineSession{RoutineID: routineID, Day: day}
	err := s.db.QueryRow(
		`SELECT completed_count, total_count FROM routine_sessions WHERE routine_id = ? AND day = ?`,
		routineID, day,
	).Scan(&sess.CompletedCount, &sess.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("get routine session: %w", err)
	}
	return sess, nil
}

func (s *Store) CreateStack(triggerHabitID, stackedHabitID string) (*HabitStack, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO habit_stacks (id, trigger_habit_id, stacked_habit_id, created_at) VALUES (?, ?, ?, ?)`,
		id, triggerHabitID, stackedHabitID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stack: %w", err)
	}
	st := &HabitStack{ID: id, TriggerHabitID: triggerHabitID, StackedHabitID: stackedHabitID}
	st.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return st, nil
}

func (s *Store) ListStacks() ([]HabitStack, error) {
	rows, err := s.db.Query(
		`SELECT id, trigger_habit_id, stacked_habit_id, created_at FROM habit_stacks ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list stacks: %w", err)
	}
	defer rows.Close()

	var stacks []HabitStack
	for rows.Next() {
		var st HabitStack
		var createdAt string
		if err := rows.Scan(&st.ID, &st.TriggerHabitID, &st.StackedHabitID, &createdAt); err != nil {
			return nil, err
		}
		st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		stacks = append(stacks, st)
	}
	return stacks, rows.Err()
}

func (s *Store) DeleteStack(id string) error {
	_, err := s.db.Exec(`DELETE FROM habit_stacks WHERE id = ?`, id)
	return err
}

func (s *Store) CreateBundle(name, trigger string, habitIDs []string) (*ContextBundle, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin bundle tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO context_bundles (id, name, trigger, created_at) VALUES (?, ?, ?, ?)`,
		id, name, trigger, now,
	); err != nil {
		return nil, fmt.Errorf("insert bundle: %w", err)
	}
	for _, hid := range habitIDs {
		if _, err := tx.Exec(
			`INSERT INTO bundle_habits (bundle_id, habit_id) VALUES (?, ?)`, id, hid,
		); err != nil {
			return nil, fmt.Errorf("insert bundle habit: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bundle: %w", err)
	}

	b := &ContextBundle{ID: id, Name: name, Trigger: trigger, HabitIDs: habitIDs}
	b.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return b, nil
}

func (s *Store) ListBundles() ([]ContextBundle, error) {
	rows, err := s.db.Query(`SELECT id, name, trigger, created_at FROM context_bundles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var bundles []ContextBundle
	for rows.Next() {
		var b ContextBundle
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.Trigger, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bundles {
		mrows, err := s.db.Query(`SELECT habit_id FROM bundle_habits WHERE bundle_id = ?`, bundles[i].ID)
		if err != nil {
			return nil, fmt.Errorf("bundle habits: %w", err)
		}
		for mrows.Next() {
			var hid string
			if err := mrows.Scan(&hid); err != nil {
				mrows.Close()
				return nil, err
			}
			bundles[i].HabitIDs = append(bundles[i].HabitIDs, hid)
		}
		if err := mrows.Err(); err != nil {
			mrows.Close()
			return nil, err
		}
		mrows.Close()
	}
	return bundles, nil
}

func (s *Store) DeleteBundle(id string) error {
	_, err := s.db.Exec(`DELETE FROM context_bundles WHERE id = ?`, id)
	return err
}
