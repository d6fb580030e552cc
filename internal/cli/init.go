package cli

import (
	"fmt"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/config"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/keyring"
)

type InitCmd struct {
	Owner        string `help:"Owner id for this device's habits." default:""`
	Backend      string `help:"Storage backend: sqlite or postgres." enum:"sqlite,postgres," default:""`
	PostgresConn string `help:"Postgres connection string; stored in the OS keyring, never in the config file." default:""`
}

// Run writes the config file and initializes the configured backend.
func (c *InitCmd) Run(cfg *config.Config) error {
	if c.Owner != "" {
		cfg.OwnerID = c.Owner
	}
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.PostgresConn != "" {
		if err := keyring.SetConnectionString(c.PostgresConn); err != nil {
			return fmt.Errorf("failed to store connection string: %w", err)
		}
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	ctx, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer ctx.Close()

	fmt.Printf("Initialized %s storage for owner %q\n", cfg.Backend, cfg.OwnerID)
	return nil
}
