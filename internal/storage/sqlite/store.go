// Package sqlite implements storage.Provider on a local SQLite file. Change
// notifications are emitted in-process on every write, which mirrors how the
// hosted backend echoes an owner's own writes back through its feed.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL DEFAULT '{"type":"daily"}',
	month_goal INTEGER NOT NULL DEFAULT 0,
	target_value REAL,
	unit TEXT NOT NULL DEFAULT '',
	skip_dates TEXT NOT NULL DEFAULT '[]',
	priority INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	archived_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_habits_owner ON habits(owner_id);

CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	day TEXT NOT NULL,
	value REAL,
	created_at TEXT NOT NULL,
	UNIQUE(habit_id, day)
);
CREATE INDEX IF NOT EXISTS idx_habit_logs_day ON habit_logs(day);
`

type Store struct {
	path   string
	db     *sql.DB
	events chan storage.ChangeEvent
}

func NewStore(path string) *Store {
	return &Store{
		path:   path,
		events: make(chan storage.ChangeEvent, 64),
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Changes() <-chan storage.ChangeEvent {
	return s.events
}

// emit delivers a change event without ever blocking a write; the feed is
// best-effort and consumers reload wholesale anyway.
func (s *Store) emit(table string, typ storage.EventType) {
	select {
	case s.events <- storage.ChangeEvent{Table: table, Type: typ}:
	default:
	}
}
