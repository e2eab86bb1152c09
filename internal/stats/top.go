package stats

import (
	"sort"

	"github.com/verte-zerg/pinscore/internal/model"
)

// TopGames returns the n highest-scoring games. Ties go to the earlier game.
func TopGames(games []model.GameRecord, n int) []model.GameRecord {
	if n <= 0 || len(games) == 0 {
		return nil
	}
	items := make([]model.GameRecord, len(games))
	copy(items, games)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].PlayedAt.Before(items[j].PlayedAt)
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
