package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Resume  HabitResumeCmd  `cmd:"" help:"Resume an archived habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its logs."`
	Skip    HabitSkipCmd    `cmd:"" help:"Toggle a skip date on a habit."`
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// parseFrequency parses a cadence descriptor:
// daily | weekdays | weekends | weekly:N | custom:mon,wed,fri
func parseFrequency(s string) (models.Frequency, error) {
	kind, arg, _ := strings.Cut(s, ":")
	switch constants.FrequencyType(kind) {
	case constants.FrequencyDaily, constants.FrequencyWeekdays, constants.FrequencyWeekends:
		return models.Frequency{Type: constants.FrequencyType(kind)}, nil
	case constants.FrequencyWeekly:
		n, err := strconv.Atoi(arg)
		if err != nil {
			return models.Frequency{}, fmt.Errorf("weekly frequency needs a count, e.g. weekly:3")
		}
		return models.Frequency{Type: constants.FrequencyWeekly, TimesPerWeek: n}, nil
	case constants.FrequencyCustom:
		var days []time.Weekday
		for _, name := range strings.Split(arg, ",") {
			wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return models.Frequency{}, fmt.Errorf("unknown weekday %q", name)
			}
			days = append(days, wd)
		}
		return models.Frequency{Type: constants.FrequencyCustom, CustomDays: days}, nil
	default:
		return models.Frequency{}, fmt.Errorf("unknown frequency %q", s)
	}
}

func describeFrequency(f models.Frequency) string {
	switch f.Type {
	case constants.FrequencyWeekly:
		return fmt.Sprintf("%dx/week", f.TimesPerWeek)
	case constants.FrequencyCustom:
		names := make([]string, 0, len(f.CustomDays))
		for _, wd := range f.CustomDays {
			names = append(names, wd.String()[:3])
		}
		return strings.Join(names, ",")
	case "":
		return string(constants.FrequencyDaily)
	default:
		return string(f.Type)
	}
}

type HabitAddCmd struct {
	Name      string  `arg:"" help:"Habit name."`
	Frequency string  `help:"Cadence: daily, weekdays, weekends, weekly:N, custom:mon,wed,..." default:"daily"`
	Category  string  `help:"Free-text category tag." default:""`
	Goal      int     `help:"Monthly completion goal." default:"0"`
	Target    float64 `help:"Daily target value for quantifiable habits." default:"0"`
	Unit      string  `help:"Unit for the target value (e.g. ml, pages)." default:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if _, ok := ctx.Coordinator.HabitByName(c.Name); ok {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	frequency, err := parseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	habit := models.Habit{
		Name:      c.Name,
		Category:  c.Category,
		Frequency: frequency,
		MonthGoal: c.Goal,
		Unit:      c.Unit,
	}
	if c.Target > 0 {
		habit.TargetValue = &c.Target
	}

	created, err := ctx.Coordinator.AddHabit(habit)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", created.Name, describeFrequency(created.Frequency))
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits := ctx.Coordinator.Habits()

	shown := 0
	for _, habit := range habits {
		if habit.Archived() && !c.Archived {
			continue
		}
		shown++

		status := ""
		if habit.Archived() {
			status = mutedStyle.Render(" [ARCHIVED]")
		}
		line := fmt.Sprintf("%2d. %s (%s)", habit.Priority, habit.Name, describeFrequency(habit.Frequency))
		if habit.Quantifiable() {
			line += mutedStyle.Render(fmt.Sprintf(" %g %s/day", *habit.TargetValue, habit.Unit))
		}
		fmt.Println(line + status)
	}

	if shown == 0 {
		fmt.Println("No habits found.")
	}
	return nil
}

type HabitEditCmd struct {
	Name      string `arg:"" help:"Habit name."`
	NewName   string `help:"New display name." default:""`
	Frequency string `help:"New cadence." default:""`
	Category  string `help:"New category." default:""`
	Goal      int    `help:"New monthly goal." default:"-1"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	var patch storage.HabitPatch
	if c.NewName != "" {
		patch.Name = &c.NewName
	}
	if c.Frequency != "" {
		frequency, err := parseFrequency(c.Frequency)
		if err != nil {
			return err
		}
		patch.Frequency = &frequency
	}
	if c.Category != "" {
		patch.Category = &c.Category
	}
	if c.Goal >= 0 {
		patch.MonthGoal = &c.Goal
	}

	if err := ctx.Coordinator.UpdateHabit(habit.ID, patch); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", c.Name)
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	if err := ctx.Coordinator.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", c.Name)
	return nil
}

type HabitResumeCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitResumeCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	if err := ctx.Coordinator.ResumeHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Resumed habit: %s\n", c.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	if err := ctx.Coordinator.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", c.Name)
	return nil
}

type HabitSkipCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitSkipCmd) Run(ctx *Context) error {
	habit, ok := ctx.Coordinator.HabitByName(c.Name)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	day := c.Date
	if day == "" {
		day = utils.Today()
	}

	if err := ctx.Coordinator.ToggleSkipDay(habit.ID, day); err != nil {
		return err
	}

	if habit, _ := ctx.Coordinator.Habit(habit.ID); habit.HasSkipDate(day) {
		fmt.Printf("Skip date added for %q on %s\n", c.Name, day)
	} else {
		fmt.Printf("Skip date removed for %q on %s\n", c.Name, day)
	}
	return nil
}
