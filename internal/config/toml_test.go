package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored: %v", err)
	}
	if cfg.Game.Type != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[game]
type = "5-pin"
balls-per-frame = 2
location = "Bowlerama Barrie"

[history]
curve-window = 5

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Type == nil || *cfg.Game.Type != "5-pin" {
		t.Fatalf("unexpected game type: %v", cfg.Game.Type)
	}
	if cfg.Game.BallsPerFrame == nil || *cfg.Game.BallsPerFrame != 2 {
		t.Fatalf("unexpected balls per frame: %v", cfg.Game.BallsPerFrame)
	}
	if cfg.Game.Category != nil {
		t.Fatalf("expected unset category to stay nil")
	}
	if cfg.History.CurveWindow == nil || *cfg.History.CurveWindow != 5 {
		t.Fatalf("unexpected curve window: %v", cfg.History.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\npins = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "game.pins") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
