// Package model defines shared data structures.
package model

import "time"

// Entry modes offered when starting a game.
const (
	EntryVisual = "visual"
	EntryManual = "manual"
)

// Categories a game can be filed under.
var Categories = []string{"Casual", "League", "Tournament", "Practice"}

// GameConfig defines settings for a new scoring session.
type GameConfig struct {
	Type          string
	BallsPerFrame int
	Category      string
	Location      string
	EntryMode     string
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Type        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Search      string
}

// FrameRecord is one stored frame: ball symbols and the running total.
type FrameRecord struct {
	Balls      [3]string `yaml:"balls,flow"`
	Cumulative int       `yaml:"cumulative"`
}

// GameRecord captures a finished game.
type GameRecord struct {
	ID         int64         `yaml:"-"`
	PublicID   string        `yaml:"id"`
	PlayedAt   time.Time     `yaml:"played_at"`
	Type       string        `yaml:"type"`
	Category   string        `yaml:"category"`
	Location   string        `yaml:"location,omitempty"`
	Score      int           `yaml:"score"`
	Strikes    int           `yaml:"strikes"`
	Spares     int           `yaml:"spares"`
	OpenFrames int           `yaml:"open_frames"`
	Frames     []FrameRecord `yaml:"frames,omitempty"`
}
