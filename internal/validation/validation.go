// Package validation rejects malformed input before any optimistic state
// change is applied.
package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
)

var (
	ErrMissingName         = errors.New("habit name is required")
	ErrNegativeGoal        = errors.New("month goal cannot be negative")
	ErrNegativeValue       = errors.New("value cannot be negative")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrArchiveBeforeCreate = errors.New("archived_at cannot precede created_at")
)

// Habit validates a habit record prior to create or edit.
func Habit(h models.Habit) error {
	if h.Name == "" {
		return ErrMissingName
	}
	if h.MonthGoal < 0 {
		return ErrNegativeGoal
	}
	if h.TargetValue != nil && *h.TargetValue < 0 {
		return fmt.Errorf("%w: target_value", ErrNegativeValue)
	}
	if h.ArchivedAt != nil && h.ArchivedAt.Before(h.CreatedAt) {
		return ErrArchiveBeforeCreate
	}

	switch h.Frequency.Type {
	case constants.FrequencyWeekly:
		if h.Frequency.TimesPerWeek < 1 || h.Frequency.TimesPerWeek > 7 {
			return fmt.Errorf("times per week must be between 1 and 7, got %d", h.Frequency.TimesPerWeek)
		}
	case constants.FrequencyCustom:
		if len(h.Frequency.CustomDays) == 0 {
			return errors.New("custom frequency requires at least one weekday")
		}
		for _, wd := range h.Frequency.CustomDays {
			if wd < time.Sunday || wd > time.Saturday {
				return fmt.Errorf("invalid weekday index %d", wd)
			}
		}
	}

	for _, day := range h.SkipDates {
		if err := Day(day); err != nil {
			return err
		}
	}
	return nil
}

// Day validates a civil date string.
func Day(day string) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	return nil
}

// Value validates a quantity being logged against a habit.
func Value(v float64) error {
	if v < 0 {
		return ErrNegativeValue
	}
	return nil
}
