package cli

import (
	"fmt"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/config"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/keyring"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/logger"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage/postgres"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage/sqlite"
	syncpkg "github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/sync"
)

// Context is passed to every command's Run method.
type Context struct {
	Config      *config.Config
	Store       storage.Provider
	Coordinator *syncpkg.Coordinator
}

// OpenStore builds the configured storage backend, initializes it, and loads
// the coordinator's initial state.
func OpenStore(cfg *config.Config) (*Context, error) {
	var store storage.Provider

	switch cfg.Backend {
	case config.BackendPostgres:
		connStr := cfg.PostgresConn
		if connStr == "" {
			// Fall back to the OS keyring for the hosted connection string
			stored, err := keyring.GetConnectionString()
			if err != nil {
				return nil, fmt.Errorf("no postgres connection configured: %w", err)
			}
			connStr = stored
		}
		store = postgres.New(connStr)
	case config.BackendSQLite, "":
		store = sqlite.NewStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if err := store.Init(); err != nil {
		return nil, err
	}

	coordinator := syncpkg.New(store, cfg.OwnerID)
	if err := coordinator.Load(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	logger.Debug("Store opened", "backend", cfg.Backend, "owner", cfg.OwnerID)
	return &Context{Config: cfg, Store: store, Coordinator: coordinator}, nil
}

// Close releases the backing store.
func (c *Context) Close() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}
}
