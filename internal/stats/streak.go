// Package stats holds the pure adherence analytics: streaks, prorated
// monthly goals, pacing, and milestone badges. Every function here reads a
// snapshot of habits/logs and touches no shared state, so all of them are
// safe to call from any goroutine.
package stats

import (
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

// Streak returns the habit's current unbroken run, counted as of today.
//
// Daily-cadence habits count consecutive satisfied days, where a day is
// satisfied if a log exists for it or it is an explicit skip date. If today
// is unsatisfied, one grace day is allowed: the walk may start from
// yesterday instead, but if yesterday is also unsatisfied the streak is 0.
//
// Weekly-cadence habits count consecutive calendar weeks (Sunday start)
// containing at least one log. The current, still-open week gets a free
// pass: an empty current week never zeroes the streak, only a fully-elapsed
// empty week does.
//
// A log's existence alone satisfies a day, even for quantifiable habits
// where the accumulated value is below target.
func Streak(habit models.Habit, logs []models.HabitLog, today time.Time) int {
	days := make(map[string]bool, len(logs))
	for _, log := range logs {
		if log.HabitID == habit.ID {
			days[log.Day] = true
		}
	}

	if habit.Frequency.Type == constants.FrequencyWeekly {
		return weeklyStreak(days, today)
	}
	return dailyStreak(habit, days, today)
}

func dailyStreak(habit models.Habit, days map[string]bool, today time.Time) int {
	satisfied := func(d time.Time) bool {
		day := utils.FormatDate(d)
		return days[day] || habit.HasSkipDate(day)
	}

	cursor := utils.CivilDay(today)
	if !satisfied(cursor) {
		// Grace day: the streak survives an incomplete today, but not an
		// incomplete yesterday as well.
		cursor = cursor.AddDate(0, 0, -1)
		if !satisfied(cursor) {
			return 0
		}
	}

	streak := 0
	for satisfied(cursor) {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func weeklyStreak(days map[string]bool, today time.Time) int {
	weekSatisfied := func(weekStart time.Time) bool {
		for i := 0; i < 7; i++ {
			if days[utils.FormatDate(weekStart.AddDate(0, 0, i))] {
				return true
			}
		}
		return false
	}

	streak := 0
	cursor := utils.StartOfWeek(today)
	// The current week is still open, so it may add to the streak but an
	// empty one does not break it.
	if weekSatisfied(cursor) {
		streak++
	}
	cursor = cursor.AddDate(0, 0, -7)

	for weekSatisfied(cursor) {
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
	return streak
}
