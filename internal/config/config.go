// Package config loads user preferences from ~/.config/habitd/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds user preferences
type Config struct {
	OwnerID string `yaml:"owner_id"` // Owner of every habit/log row
	Backend string `yaml:"backend"`  // "sqlite" or "postgres"

	SQLitePath string `yaml:"sqlite_path"` // Local database file (sqlite backend)
	// PostgresConn is the hosted database connection string. Credentials
	// must NOT be embedded; the full connection string may instead live in
	// the OS keyring.
	PostgresConn string `yaml:"postgres_conn"`

	Debug bool `yaml:"debug"`
}

// Dir returns the application config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	sqlitePath := ""
	if dir != "" {
		sqlitePath = filepath.Join(dir, constants.AppName+".db")
	}

	return &Config{
		OwnerID:    getEnv("HABITD_OWNER", "local"),
		Backend:    getEnv("HABITD_BACKEND", BackendSQLite),
		SQLitePath: getEnv("HABITD_SQLITE_PATH", sqlitePath),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from the config directory, falling back to defaults when
// no file exists yet.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
