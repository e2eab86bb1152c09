package stats

import (
	"context"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Games         []model.GameRecord
	WindowGames   []model.GameRecord
	Summary       Summary
	Achievements  []Achievement
	FrameAverages []float64
}

// BuildReport loads games matching cfg with their frames and derives the
// dashboard, achievements, and per-frame averages.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	frames, err := st.ListFramesForGames(ctx, gameIDs(games))
	if err != nil {
		return Report{}, err
	}
	for i := range games {
		games[i].Frames = frames[games[i].ID]
	}
	achievements, err := Achievements(games)
	if err != nil {
		return Report{}, err
	}
	window := lastGames(games, cfg.CurveWindow)
	return Report{
		Games:         games,
		WindowGames:   window,
		Summary:       Summarize(games),
		Achievements:  achievements,
		FrameAverages: FrameAverages(window),
	}, nil
}

func gameIDs(games []model.GameRecord) []int64 {
	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

func lastGames(games []model.GameRecord, window int) []model.GameRecord {
	if window <= 0 || len(games) <= window {
		return games
	}
	return games[len(games)-window:]
}
