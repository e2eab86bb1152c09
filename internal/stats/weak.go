package stats

import (
	"sort"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
)

// FrameAverages returns the mean score of each frame position across games
// that have stored frames.
func FrameAverages(games []model.GameRecord) []float64 {
	sums := make([]float64, scoring.FrameCount)
	counted := 0
	for _, g := range games {
		if len(g.Frames) != scoring.FrameCount {
			continue
		}
		prev := 0
		for i, f := range g.Frames {
			sums[i] += float64(f.Cumulative - prev)
			prev = f.Cumulative
		}
		counted++
	}
	if counted == 0 {
		return nil
	}
	for i := range sums {
		sums[i] /= float64(counted)
	}
	return sums
}

// WeakestFrames returns the 1-based frame numbers with the lowest averages.
func WeakestFrames(averages []float64, top int) []int {
	if len(averages) == 0 {
		return nil
	}
	idx := make([]int, len(averages))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return averages[idx[i]] < averages[idx[j]]
	})
	if top <= 0 || top > len(idx) {
		top = len(idx)
	}
	out := make([]int, top)
	for i := 0; i < top; i++ {
		out[i] = idx[i] + 1
	}
	return out
}
