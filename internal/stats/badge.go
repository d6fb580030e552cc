package stats

import (
	"math"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
)

// Badge is one milestone with earned state and percentage progress.
type Badge struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Earned   bool   `json:"earned"`
	Progress int    `json:"progress"` // 0..100
}

type badgeMetric int

const (
	metricBestStreak badgeMetric = iota
	metricHabitCount
	metricCompletions
)

// milestones is the fixed badge set. Order and ids are stable across calls;
// callers use them as list keys.
var milestones = []struct {
	id        string
	name      string
	metric    badgeMetric
	threshold int
}{
	{"streak-7", "One Week Streak", metricBestStreak, 7},
	{"streak-30", "One Month Streak", metricBestStreak, 30},
	{"streak-100", "Century Streak", metricBestStreak, 100},
	{"first-habit", "Getting Started", metricHabitCount, 1},
	{"completions-50", "Fifty Check-ins", metricCompletions, 50},
	{"habit-collector", "Habit Collector", metricHabitCount, 5},
}

// Badges evaluates every milestone against the current aggregates: the best
// current streak across all habits, the habit count, and the total number of
// log rows. Every log row counts as one completion, including partial logs
// of quantifiable habits.
func Badges(habits []models.Habit, logs []models.HabitLog, today time.Time) []Badge {
	bestStreak := 0
	for _, h := range habits {
		if s := Streak(h, logs, today); s > bestStreak {
			bestStreak = s
		}
	}

	values := map[badgeMetric]int{
		metricBestStreak:  bestStreak,
		metricHabitCount:  len(habits),
		metricCompletions: len(logs),
	}

	badges := make([]Badge, 0, len(milestones))
	for _, m := range milestones {
		value := values[m.metric]
		progress := int(math.Round(100 * float64(value) / float64(m.threshold)))
		if progress > 100 {
			progress = 100
		}
		badges = append(badges, Badge{
			ID:       m.id,
			Name:     m.name,
			Earned:   value >= m.threshold,
			Progress: progress,
		})
	}
	return badges
}
