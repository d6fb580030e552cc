package utils

import (
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
)

// Today returns today's civil date string (YYYY-MM-DD) in local time.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// ParseDate parses a civil date string (YYYY-MM-DD). The result is midnight
// UTC; civil dates carry no timezone, so every caller must stay in this
// convention to avoid shift-by-a-day bugs when formatting back.
func ParseDate(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// FormatDate formats a time as a civil date string (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// CivilDay truncates a timestamp to its civil day (midnight, same location).
func CivilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// StartOfWeek returns the Sunday beginning the calendar week containing t,
// truncated to the civil day.
func StartOfWeek(t time.Time) time.Time {
	d := CivilDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// SameMonth reports whether two times fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
