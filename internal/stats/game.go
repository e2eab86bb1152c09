package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
)

// FrameOutcome classifies a frame for strike and spare counting.
type FrameOutcome int

// Frame outcomes.
const (
	OutcomeOpen FrameOutcome = iota
	OutcomeStrike
	OutcomeSpare
)

// Outcome returns whether the frame opened with a strike, was spared, or
// stayed open. Any later ball that clears the rack spares the frame, so a
// gutter followed by the strike shortcut counts as a spare. Unthrown frames
// are open.
func Outcome(f scoring.Frame) FrameOutcome {
	if f.Balls[0] == scoring.Strike {
		return OutcomeStrike
	}
	for _, b := range f.Balls[1:] {
		if b.ClearsRack() {
			return OutcomeSpare
		}
	}
	return OutcomeOpen
}

// Metrics summarizes one game's frames.
type Metrics struct {
	Strikes         int
	Spares          int
	OpenFrames      int
	MaxStrikeStreak int
	MaxSpareStreak  int
}

// GameMetrics counts strike, spare, and open frames and the longest runs.
func GameMetrics(frames [scoring.FrameCount]scoring.Frame) Metrics {
	var m Metrics
	strikeRun, spareRun := 0, 0
	for _, f := range frames {
		switch Outcome(f) {
		case OutcomeStrike:
			m.Strikes++
			strikeRun++
			spareRun = 0
		case OutcomeSpare:
			m.Spares++
			spareRun++
			strikeRun = 0
		default:
			m.OpenFrames++
			strikeRun, spareRun = 0, 0
		}
		m.MaxStrikeStreak = max(m.MaxStrikeStreak, strikeRun)
		m.MaxSpareStreak = max(m.MaxSpareStreak, spareRun)
	}
	return m
}

// RecordFromState builds a storable record from a finished game.
func RecordFromState(state scoring.GameState, cfg model.GameConfig, playedAt time.Time) model.GameRecord {
	frames := state.Frames()
	cumulative := state.Cumulative()
	m := GameMetrics(frames)
	rec := model.GameRecord{
		PlayedAt:   playedAt,
		Type:       string(state.Rules().GameType),
		Category:   cfg.Category,
		Location:   cfg.Location,
		Score:      state.Total(),
		Strikes:    m.Strikes,
		Spares:     m.Spares,
		OpenFrames: m.OpenFrames,
		Frames:     make([]model.FrameRecord, len(frames)),
	}
	for i, f := range frames {
		var fr model.FrameRecord
		for j, b := range f.Balls {
			fr.Balls[j] = b.String()
		}
		fr.Cumulative = cumulative[i]
		rec.Frames[i] = fr
	}
	return rec
}

// FramesFromRecord parses stored ball symbols back into frames.
func FramesFromRecord(rec model.GameRecord) ([scoring.FrameCount]scoring.Frame, error) {
	var frames [scoring.FrameCount]scoring.Frame
	if len(rec.Frames) > scoring.FrameCount {
		return frames, fmt.Errorf("game %s has %d frames", rec.PublicID, len(rec.Frames))
	}
	for i, fr := range rec.Frames {
		for j, sym := range fr.Balls {
			b, err := scoring.ParseBall(sym)
			if err != nil {
				return frames, fmt.Errorf("game %s frame %d: %w", rec.PublicID, i+1, err)
			}
			frames[i].Balls[j] = b
		}
	}
	return frames, nil
}
