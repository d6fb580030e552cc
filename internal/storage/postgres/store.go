// Package postgres implements storage.Provider on a hosted PostgreSQL
// database. Change notifications ride LISTEN/NOTIFY: row triggers on both
// tables post to the habit_changes channel and a pq.Listener relays them
// into the provider's feed.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/logger"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

const notifyChannel = "habit_changes"

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	frequency JSONB NOT NULL DEFAULT '{"type":"daily"}',
	month_goal INTEGER NOT NULL DEFAULT 0,
	target_value DOUBLE PRECISION,
	unit TEXT NOT NULL DEFAULT '',
	skip_dates JSONB NOT NULL DEFAULT '[]',
	priority INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_habits_owner ON habits(owner_id);

CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	day TEXT NOT NULL,
	value DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(habit_id, day)
);
CREATE INDEX IF NOT EXISTS idx_habit_logs_day ON habit_logs(day);

CREATE OR REPLACE FUNCTION notify_habit_changes() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('habit_changes', TG_TABLE_NAME || ':' || TG_OP);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS habits_notify ON habits;
CREATE TRIGGER habits_notify
	AFTER INSERT OR UPDATE OR DELETE ON habits
	FOR EACH ROW EXECUTE FUNCTION notify_habit_changes();

DROP TRIGGER IF EXISTS habit_logs_notify ON habit_logs;
CREATE TRIGGER habit_logs_notify
	AFTER INSERT OR UPDATE OR DELETE ON habit_logs
	FOR EACH ROW EXECUTE FUNCTION notify_habit_changes();
`

type Store struct {
	connStr  string
	db       *sql.DB
	listener *pq.Listener
	events   chan storage.ChangeEvent
	done     chan struct{}
}

func New(connStr string) *Store {
	return &Store{
		connStr: connStr,
		events:  make(chan storage.ChangeEvent, 64),
		done:    make(chan struct{}),
	}
}

// validateConnStr enforces the credential rule inherited from the CLI:
// passwords never live in the connection string, they come from the OS
// keyring or the environment.
func validateConnStr(connStr string) error {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, has := u.User.Password(); has {
			return ErrEmbeddedCredentials
		}
		return nil
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

func (s *Store) Init() error {
	if err := validateConnStr(s.connStr); err != nil {
		return err
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return s.startListener()
}

func (s *Store) startListener() error {
	s.listener = pq.NewListener(s.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Postgres listener event", "event", ev, "error", err)
		}
	})
	if err := s.listener.Listen(notifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", notifyChannel, err)
	}

	go s.relay()
	return nil
}

// relay converts raw NOTIFY payloads ("table:OP") into change events. A nil
// notification signals a reconnect, after which rows may have been missed,
// so a synthetic event nudges consumers to reload.
func (s *Store) relay() {
	for {
		select {
		case <-s.done:
			return
		case n := <-s.listener.Notify:
			event := storage.ChangeEvent{Table: "habits", Type: storage.EventUpdate}
			if n != nil {
				if table, op, ok := strings.Cut(n.Extra, ":"); ok {
					event = storage.ChangeEvent{Table: table, Type: storage.EventType(op)}
				}
			}
			select {
			case s.events <- event:
			default:
			}
		}
	}
}

func (s *Store) Close() error {
	close(s.done)
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			logger.Warn("Failed to close Postgres listener", "error", err)
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Changes() <-chan storage.ChangeEvent {
	return s.events
}
