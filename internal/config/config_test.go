package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OwnerID != "local" {
		t.Errorf("OwnerID = %q, want local", cfg.OwnerID)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.SQLitePath == "" {
		t.Error("SQLitePath should default under the config directory")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HABITD_OWNER", "alex")
	t.Setenv("HABITD_BACKEND", BackendPostgres)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OwnerID != "alex" || cfg.Backend != BackendPostgres {
		t.Errorf("env overrides ignored: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.OwnerID = "alex"
	cfg.Backend = BackendPostgres
	cfg.PostgresConn = "postgres://db.example.com:5432/habits?sslmode=require"
	cfg.Debug = true

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.OwnerID != "alex" || loaded.Backend != BackendPostgres || !loaded.Debug {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.PostgresConn != cfg.PostgresConn {
		t.Errorf("PostgresConn = %q, want %q", loaded.PostgresConn, cfg.PostgresConn)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}
