package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/pinscore/internal/scoring"
)

// ScorecardRows returns the frame header, ball symbols, and running totals
// for a game. Frames with no ball show "-" as their total.
func ScorecardRows(frames [scoring.FrameCount]scoring.Frame) (headers []string, balls []string, totals []string) {
	headers = []string{"Frame"}
	balls = []string{"Balls"}
	totals = []string{"Total"}
	running := 0
	for i, f := range frames {
		headers = append(headers, strconv.Itoa(i+1))
		symbols := make([]string, 0, scoring.MaxBalls)
		for _, b := range f.Balls {
			if !b.IsEmpty() {
				symbols = append(symbols, b.String())
			}
		}
		balls = append(balls, strings.Join(symbols, " "))
		running += f.Score()
		if f.Started() {
			totals = append(totals, strconv.Itoa(running))
		} else {
			totals = append(totals, "-")
		}
	}
	return headers, balls, totals
}

// RenderFrameTable prints frames as a plain table.
func RenderFrameTable(w io.Writer, frames [scoring.FrameCount]scoring.Frame) error {
	headers, balls, totals := ScorecardRows(frames)
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	for _, line := range formatTable(headers, [][]string{balls, totals}, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderScorecard prints a game's frames followed by its total.
func RenderScorecard(w io.Writer, state scoring.GameState) error {
	if err := RenderFrameTable(w, state.Frames()); err != nil {
		return err
	}
	status := "in progress"
	if state.Complete() {
		status = "complete"
	}
	_, err := fmt.Fprintf(w, "Game total: %d (%s)\n", state.Total(), status)
	return err
}
