// Package stats contains game metrics, history summaries, and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// seriesLength is the number of games in a high series.
const seriesLength = 3

// Summary holds dashboard figures for a set of games.
type Summary struct {
	Games      int
	Average    float64
	HighGame   int
	HighSeries int
	StrikePct  float64
	SparePct   float64
}

// Summarize computes dashboard figures. Strike and spare rates are per frame.
func Summarize(games []model.GameRecord) Summary {
	if len(games) == 0 {
		return Summary{}
	}
	s := Summary{Games: len(games)}
	total, strikes, spares := 0, 0, 0
	for _, g := range games {
		total += g.Score
		strikes += g.Strikes
		spares += g.Spares
		if g.Score > s.HighGame {
			s.HighGame = g.Score
		}
	}
	frames := float64(len(games) * scoring.FrameCount)
	s.Average = float64(total) / float64(len(games))
	s.StrikePct = float64(strikes) / frames * 100
	s.SparePct = float64(spares) / frames * 100
	s.HighSeries = HighSeries(scores(games))
	return s
}

// HighSeries returns the best total over three consecutive games. With
// fewer games it returns the sum of all of them.
func HighSeries(scores []int) int {
	best := 0
	for i := range scores {
		if i >= seriesLength {
			break
		}
		best += scores[i]
	}
	for i := 0; i+seriesLength <= len(scores); i++ {
		sum := 0
		for _, v := range scores[i : i+seriesLength] {
			sum += v
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

func scores(games []model.GameRecord) []int {
	out := make([]int, len(games))
	for i, g := range games {
		out[i] = g.Score
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMaxSingle(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints dashboard figures for games.
func RenderSummary(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s := Summarize(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Average: %.1f", s.Average),
		fmt.Sprintf("High Game: %d", s.HighGame),
		fmt.Sprintf("High Series: %d", s.HighSeries),
		fmt.Sprintf("Strike %%: %.0f%%", s.StrikePct),
		fmt.Sprintf("Spare %%: %.0f%%", s.SparePct),
		fmt.Sprintf("Trend: %s", Sparkline(floatScores(games))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints the score curve with its moving average.
func RenderCurves(w io.Writer, games []model.GameRecord, window int) error {
	return RenderCurvesWithSize(w, games, window, 0, 10, false)
}

// RenderCurvesWithSize prints the score curve sized to a given total width.
func RenderCurvesWithSize(w io.Writer, games []model.GameRecord, window, totalWidth, height int, useColor bool) error {
	if len(games) == 0 {
		return nil
	}
	raw := floatScores(games)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Score Curve", []Series{
		{Name: "Score", Values: raw},
		{Name: fmt.Sprintf("Avg(%d)", window), Values: MovingAverage(raw, window)},
	}, width, height, useColor)
}

func floatScores(games []model.GameRecord) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.Score)
	}
	return out
}

// RenderGameTable prints one row per game, oldest first.
func RenderGameTable(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Games"); err != nil {
		return err
	}
	headers, rows := GameTableRows(games)
	rightAlign := map[int]bool{4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// GameTableRows returns headers and cells for the games table.
func GameTableRows(games []model.GameRecord) ([]string, [][]string) {
	headers := []string{"Date", "Type", "Category", "Location", "Score", "Strikes", "Spares", "Open"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		location := g.Location
		if location == "" {
			location = "-"
		}
		rows = append(rows, []string{
			g.PlayedAt.Local().Format("2006-01-02 15:04"),
			g.Type,
			g.Category,
			location,
			fmt.Sprintf("%d", g.Score),
			fmt.Sprintf("%d", g.Strikes),
			fmt.Sprintf("%d", g.Spares),
			fmt.Sprintf("%d", g.OpenFrames),
		})
	}
	return headers, rows
}

// RenderAchievements prints earned and locked badges.
func RenderAchievements(w io.Writer, achievements []Achievement) error {
	if _, err := fmt.Fprintf(w, "Achievements (%d/%d)\n", EarnedCount(achievements), len(achievements)); err != nil {
		return err
	}
	for _, a := range achievements {
		mark := "[ ]"
		when := ""
		if a.Earned {
			mark = "[x]"
			when = " (" + a.EarnedAt.Local().Format("2006-01-02") + ")"
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s%s\n", mark, a.Title, a.Desc, when); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
