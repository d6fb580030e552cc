package cli

import (
	"fmt"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/schedule"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/stats"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

type StatsCmd struct {
	Month string `help:"Viewed month in YYYY-MM format (default: current)." default:""`
}

func (c *StatsCmd) Run(ctx *Context) error {
	now := time.Now()
	month := now
	if c.Month != "" {
		parsed, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
		month = parsed
	}

	habits := ctx.Coordinator.Habits()
	logs := ctx.Coordinator.Logs()

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Habit stats for %s", month.Format("January 2006"))))

	for _, habit := range habits {
		if habit.Archived() {
			continue
		}

		streak := stats.Streak(habit, logs, now)
		goal := stats.DynamicGoal(habit, month)
		completed := stats.CompletedInMonth(habit, logs, month)

		due := ""
		if schedule.IsDue(habit, now) {
			due = " (due today)"
		}

		line := fmt.Sprintf("%-20s streak %3d   %d/%d this month%s", habit.Name, streak, completed, goal, due)

		// For a past month pacing is judged against the full month
		dayOfMonth := now.Day()
		if !utils.SameMonth(now, month) {
			dayOfMonth = utils.DaysInMonth(month)
		}

		if goal > 0 {
			pace := stats.Pacing(habit, completed, dayOfMonth, month)
			switch pace.Status {
			case constants.PaceAhead:
				line += "  " + aheadStyle.Render(pace.Message)
			case constants.PaceBehind:
				line += "  " + behindStyle.Render(pace.Message)
			default:
				line += "  " + pace.Message
			}
		}
		fmt.Println(line)
	}
	return nil
}

type BadgesCmd struct{}

func (c *BadgesCmd) Run(ctx *Context) error {
	badges := stats.Badges(ctx.Coordinator.Habits(), ctx.Coordinator.Logs(), time.Now())

	fmt.Println(titleStyle.Render("Badges"))
	for _, badge := range badges {
		if badge.Earned {
			fmt.Printf("%s %s\n", earnedStyle.Render("[earned]"), badge.Name)
		} else {
			fmt.Printf("%s %s (%d%%)\n", mutedStyle.Render("[locked]"), badge.Name, badge.Progress)
		}
	}
	return nil
}
