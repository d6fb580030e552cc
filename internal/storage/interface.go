// Package storage defines the persistence collaborator consumed by the sync
// coordinator: owner-scoped habit/log collections plus a best-effort change
// notification feed.
package storage

import (
	"errors"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// EventType classifies a change notification.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent notifies that a row in a table changed. The feed carries no
// ordering or delivery guarantees beyond eventually notifying; consumers
// reload rather than applying events row by row.
type ChangeEvent struct {
	Table string // "habits" or "habit_logs"
	Type  EventType
}

// HabitPatch is a partial habit update. Nil fields are left untouched.
// ClearArchivedAt resumes an archived habit; it wins over ArchivedAt.
type HabitPatch struct {
	Name            *string
	Category        *string
	Frequency       *models.Frequency
	MonthGoal       *int
	TargetValue     *float64
	Unit            *string
	SkipDates       *[]string
	Priority        *int
	ArchivedAt      *time.Time
	ClearArchivedAt bool
}

// LogPatch is a partial habit-log update.
type LogPatch struct {
	Value *float64
}

type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Habits
	ListHabits(ownerID string) ([]models.Habit, error)
	InsertHabit(habit models.Habit) (models.Habit, error)
	UpdateHabit(id string, patch HabitPatch) error
	DeleteHabit(id string) error

	// Habit logs. Deleting a habit cascades to its logs.
	ListLogs(ownerID string) ([]models.HabitLog, error)
	InsertLog(log models.HabitLog) (models.HabitLog, error)
	UpdateLog(id string, patch LogPatch) error
	DeleteLog(id string) error

	// Changes returns the change notification feed for the owner's rows.
	Changes() <-chan ChangeEvent
}
