package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/cli"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/config"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/errors"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize habitd storage and config."`
	Habit  cli.HabitCmd  `cmd:"" help:"Manage habits."`
	Mark   cli.MarkCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Log    cli.LogCmd    `cmd:"" help:"Record quantities for quantifiable habits."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show streaks, goals, and pacing."`
	Badges cli.BadgesCmd `cmd:"" help:"Show milestone badges."`
	Watch  cli.WatchCmd  `cmd:"" help:"Follow remote changes and keep local state reconciled."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit scheduling and adherence tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	configDir, err := config.Dir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatal(err)
	}

	// The init command builds its own store; everything else gets an opened
	// one with state already loaded.
	var appCtx *cli.Context
	if kctx.Selected() != nil && kctx.Selected().Name != "init" {
		appCtx, err = cli.OpenStore(cfg)
		if err != nil {
			errors.Fatal(err)
		}
		defer appCtx.Close()
	}

	if err := kctx.Run(appCtx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Format(err))
		os.Exit(1)
	}
}
