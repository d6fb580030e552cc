package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

// PaceReport describes progress against the month's (possibly prorated) goal.
type PaceReport struct {
	Status   constants.PaceStatus `json:"status"`
	Message  string               `json:"message"`
	Goal     int                  `json:"goal"`
	Expected int                  `json:"expected"`
}

// activeWindow returns the habit's first and last active day-of-month within
// the viewed month, or ok=false if the habit was not active at all that month.
func activeWindow(habit models.Habit, month time.Time) (start, end int, ok bool) {
	totalDays := utils.DaysInMonth(month)
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := time.Date(month.Year(), month.Month(), totalDays, 0, 0, 0, 0, month.Location())

	created := utils.CivilDay(habit.CreatedAt)
	if created.After(monthEnd) {
		return 0, 0, false
	}
	if habit.ArchivedAt != nil && utils.CivilDay(*habit.ArchivedAt).Before(monthStart) {
		return 0, 0, false
	}

	start = 1
	if utils.SameMonth(created, month) {
		start = created.Day()
	}
	end = totalDays
	if habit.ArchivedAt != nil && utils.SameMonth(*habit.ArchivedAt, month) {
		end = habit.ArchivedAt.Day()
	}
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

// DynamicGoal prorates the habit's monthly target across the fraction of the
// viewed month it was actually active. A habit active for the whole month
// keeps its goal unchanged; a habit created or archived mid-month gets
// ceil(activeDays * goal / totalDays), floored at 1 so any habit active at
// least one day still has a goal. Months the habit never touched yield 0.
func DynamicGoal(habit models.Habit, month time.Time) int {
	start, end, ok := activeWindow(habit, month)
	if !ok {
		return 0
	}

	totalDays := utils.DaysInMonth(month)
	activeDays := end - start + 1
	if activeDays >= totalDays {
		return habit.MonthGoal
	}

	goal := int(math.Ceil(float64(activeDays) * float64(habit.MonthGoal) / float64(totalDays)))
	if goal < 1 {
		goal = 1
	}
	return goal
}

// CompletedInMonth counts the habit's completed days within the viewed
// month. Unlike the streak walk, a quantifiable habit only counts here once
// its accumulated value reaches the daily target; this matches the
// dashboard counters, and the difference from streak semantics is
// deliberate.
func CompletedInMonth(habit models.Habit, logs []models.HabitLog, month time.Time) int {
	prefix := month.Format("2006-01")
	count := 0
	for _, log := range logs {
		if log.HabitID != habit.ID || !strings.HasPrefix(log.Day, prefix) {
			continue
		}
		if habit.Satisfied(log) {
			count++
		}
	}
	return count
}

// Pacing compares the completed count against the expected count at the
// given day of the viewed month, linearly interpolating the (possibly
// prorated) goal across the elapsed active days.
func Pacing(habit models.Habit, completed, dayOfMonth int, month time.Time) PaceReport {
	goal := DynamicGoal(habit, month)
	if goal == 0 {
		return PaceReport{Status: constants.PaceOnTrack, Message: "No goal this month"}
	}

	start, end, _ := activeWindow(habit, month)
	activeDays := end - start + 1
	elapsed := dayOfMonth - start + 1
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > activeDays {
		elapsed = activeDays
	}

	expected := int(math.Round(float64(goal) * float64(elapsed) / float64(activeDays)))

	report := PaceReport{Goal: goal, Expected: expected}
	switch {
	case completed >= goal:
		report.Status = constants.PaceAhead
		report.Message = "Goal Met"
	case completed >= expected+2:
		report.Status = constants.PaceAhead
		report.Message = fmt.Sprintf("Ahead of pace (%d/%d)", completed, goal)
	case completed >= expected:
		report.Status = constants.PaceOnTrack
		report.Message = fmt.Sprintf("On track (%d/%d)", completed, goal)
	case expected-completed > 5:
		report.Status = constants.PaceBehind
		report.Message = "Far behind"
	default:
		report.Status = constants.PaceBehind
		report.Message = "Slightly behind"
	}
	return report
}
