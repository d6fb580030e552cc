// Package schedule decides whether a habit is due on a given calendar date.
package schedule

import (
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

// IsDue determines if a habit is due on the given date based on its
// frequency rule. Dates before the habit's creation day are never due.
// Archive state is deliberately not checked here: whether an archived habit
// should still be shown is a caller concern.
//
// Weekly habits ("N times per week") are due every day: the resolver cannot
// know which N days the user intends, so the weekly quota is evaluated at
// the week level by aggregate code paths, never per-day.
func IsDue(habit models.Habit, date time.Time) bool {
	if utils.CivilDay(date).Before(utils.CivilDay(habit.CreatedAt)) {
		return false
	}

	switch habit.Frequency.Type {
	case constants.FrequencyDaily:
		return true
	case constants.FrequencyWeekdays:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case constants.FrequencyWeekends:
		wd := date.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case constants.FrequencyWeekly:
		return true
	case constants.FrequencyCustom:
		for _, wd := range habit.Frequency.CustomDays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	default:
		// Unknown or missing frequency behaves as daily
		return true
	}
}
