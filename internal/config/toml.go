// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game    GameConfig    `toml:"game"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// GameConfig maps settings for new games.
type GameConfig struct {
	Type          *string `toml:"type"`
	BallsPerFrame *int    `toml:"balls-per-frame"`
	Category      *string `toml:"category"`
	Location      *string `toml:"location"`
	EntryMode     *string `toml:"entry-mode"`
}

// HistoryConfig maps history browser defaults.
type HistoryConfig struct {
	Type        *string `toml:"type"`
	Last        *int    `toml:"last"`
	CurveWindow *int    `toml:"curve-window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
