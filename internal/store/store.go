package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS habits (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		notes          TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL DEFAULT 'other',
		difficulty     TEXT NOT NULL DEFAULT 'medium',
		scheduled_days TEXT NOT NULL DEFAULT '',
		archived       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		habit_id  TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		day       TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (habit_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_habit_completions_day ON habit_completions(day);

	CREATE TABLE IF NOT EXISTS todos (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		notes      TEXT NOT NULL DEFAULT '',
		category   TEXT NOT NULL DEFAULT 'other',
		priority   TEXT NOT NULL DEFAULT 'medium',
		energy     TEXT NOT NULL DEFAULT 'medium',
		due_date   TEXT,
		archived   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS todo_completions (
		todo_id   TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
		day       TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (todo_id, day)
	);

	CREATE TABLE IF NOT EXISTS goals (
		id            TEXT PRIMARY KEY,
		habit_id      TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		target_streak INTEGER NOT NULL,
		target_date   TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id          TEXT PRIMARY KEY,
		unlocked    INTEGER NOT NULL DEFAULT 0,
		progress    REAL NOT NULL DEFAULT 0,
		unlocked_at TEXT
	);

	CREATE TABLE IF NOT EXISTS routines (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		time_window TEXT NOT NULL DEFAULT 'any',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS routine_habits (
		routine_id TEXT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
		habit_id   TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (routine_id, habit_id)
	);

	CREATE TABLE IF NOT EXISTS routine_sessions (
		routine_id      TEXT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
		day             TEXT NOT NULL,
		completed_count INTEGER NOT NULL DEFAULT 0,
		total_count     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (routine_id, day)
	);

	CREATE TABLE IF NOT EXISTS habit_stacks (
		id               TEXT PRIMARY KEY,
		trigger_habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		stacked_habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS context_bundles (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		trigger    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS bundle_habits (
		bundle_id TEXT NOT NULL REFERENCES context_bundles(id) ON DELETE CASCADE,
		habit_id  TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		PRIMARY KEY (bundle_id, habit_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('theme_mode',        'dark'),
		('week_start',        'monday'),
		('ai_prioritization', '1'),
		('reminders_enabled', '1'),
		('reminder_time',     '09:00'),
		('last_cloud_backup', '');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/cadence/cadence.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "cadence", "cadence.db"), nil
}
