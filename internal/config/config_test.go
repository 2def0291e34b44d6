package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"studycal/internal/config"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeekStart != "sunday" {
		t.Errorf("WeekStart = %q, want sunday", cfg.WeekStart)
	}
	if cfg.DefaultColor != "#FF5733" {
		t.Errorf("DefaultColor = %q, want #FF5733", cfg.DefaultColor)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "listen: 0.0.0.0:9000\nweek_start: Friday\nics:\n  - id: cs101\n    url: https://example.com/cs101.ics\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.WeekStart != "sunday" {
		t.Errorf("unknown week_start should fall back to sunday, got %q", cfg.WeekStart)
	}
	if cfg.GridCacheSize <= 0 || cfg.RateLimitPerMin <= 0 {
		t.Errorf("zero values not normalized: %+v", cfg)
	}
	if len(cfg.ICS) != 1 || cfg.ICS[0].ID != "cs101" {
		t.Errorf("ICS = %+v", cfg.ICS)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STUDYCAL_LISTEN", "127.0.0.1:7777")
	t.Setenv("STUDYCAL_WEEK_START", "monday")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:7777" {
		t.Errorf("Listen = %q, want env override", cfg.Listen)
	}
	if cfg.WeekStart != "monday" {
		t.Errorf("WeekStart = %q, want monday", cfg.WeekStart)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := config.Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
