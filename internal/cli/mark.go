package cli

import (
	"fmt"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

type MarkCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

// Run toggles the completion record for the day: marking an already-marked
// day unmarks it.
func (c *MarkCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	day := c.Date
	if day == "" {
		day = utils.Today()
	}

	completed, err := ctx.Coordinator.ToggleLog(habit.ID, day)
	if err != nil {
		return err
	}

	if completed {
		fmt.Printf("Marked habit %q for %s\n", c.Name, day)
	} else {
		fmt.Printf("Unmarked habit %q for %s\n", c.Name, day)
	}
	return nil
}

type LogCmd struct {
	Add LogAddCmd `cmd:"" help:"Add a quantity to a day's log."`
	Set LogSetCmd `cmd:"" help:"Overwrite a day's logged value."`
}

type LogAddCmd struct {
	Name   string  `arg:"" help:"Habit name."`
	Amount float64 `arg:"" help:"Quantity to add."`
	Date   string  `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *LogAddCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	day := c.Date
	if day == "" {
		day = utils.Today()
	}

	if err := ctx.Coordinator.AddLogValue(habit.ID, day, c.Amount); err != nil {
		return err
	}

	log, _ := ctx.Coordinator.LogFor(habit.ID, day)
	total := 0.0
	if log.Value != nil {
		total = *log.Value
	}
	fmt.Printf("Logged %g %s for %q on %s (total %g)\n", c.Amount, habit.Unit, c.Name, day, total)
	return nil
}

type LogSetCmd struct {
	Name  string  `arg:"" help:"Habit name."`
	Value float64 `arg:"" help:"New value. Zero removes the log."`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *LogSetCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	day := c.Date
	if day == "" {
		day = utils.Today()
	}

	log, ok := ctx.Coordinator.LogFor(habit.ID, day)
	if !ok {
		if c.Value == 0 {
			fmt.Printf("No log for %q on %s\n", c.Name, day)
			return nil
		}
		return ctx.Coordinator.AddLogValue(habit.ID, day, c.Value)
	}

	if err := ctx.Coordinator.UpdateLogValue(log.ID, c.Value); err != nil {
		return err
	}
	fmt.Printf("Set %q to %g %s on %s\n", c.Name, c.Value, habit.Unit, day)
	return nil
}
