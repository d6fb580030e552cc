package models

import (
	"slices"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
)

// Frequency describes which calendar days a habit is due.
// TimesPerWeek is only meaningful for the weekly type; CustomDays only for custom.
type Frequency struct {
	Type         constants.FrequencyType `json:"type"`
	TimesPerWeek int                     `json:"times_per_week,omitempty"`
	CustomDays   []time.Weekday          `json:"custom_days,omitempty"`
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Frequency   Frequency  `json:"frequency"`
	MonthGoal   int        `json:"month_goal"`
	TargetValue *float64   `json:"target_value,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	SkipDates   []string   `json:"skip_dates,omitempty"` // YYYY-MM-DD, sorted ascending
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// HabitLog represents a single day's record of a habit. At most one log
// exists per (habit, day); existence alone means the habit was acted on.
type HabitLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Value     *float64  `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Quantifiable reports whether the habit tracks an accumulated value
// against a daily target rather than a plain done/not-done toggle.
func (h Habit) Quantifiable() bool {
	return h.TargetValue != nil && *h.TargetValue > 0
}

// Archived reports whether the habit has been archived.
func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}

// HasSkipDate reports whether day (YYYY-MM-DD) is explicitly excused.
func (h Habit) HasSkipDate(day string) bool {
	return slices.Contains(h.SkipDates, day)
}

// Satisfied reports whether the given log fulfils the habit for its day.
// Quantifiable habits require the accumulated value to reach the target;
// toggle habits are satisfied by the log's existence.
func (h Habit) Satisfied(log HabitLog) bool {
	if !h.Quantifiable() {
		return true
	}
	return log.Value != nil && *log.Value >= *h.TargetValue
}
