package stats

import (
	"time"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
)

var strikeStreakNames = []string{
	"Strike", "Double", "Turkey", "Beetle", "Donkey", "Rhinoceros",
	"T-Rex", "Giraffe", "Wild Turkey", "Anglerfish", "Unicorn", "G.O.A.T",
}

var spareStreakNames = []string{
	"Egg", "Chick", "Chicken", "Duck", "Goose", "Emu",
	"Ostrich", "Penguin", "Hawk", "Eagle",
}

// StrikeStreakName names a run of n consecutive strike frames. Runs past
// the table keep the last name.
func StrikeStreakName(n int) string {
	if n > len(strikeStreakNames) {
		n = len(strikeStreakNames)
	}
	return streakName(strikeStreakNames, n)
}

// SpareStreakName names a run of n consecutive spare frames. Runs past the
// table have no name.
func SpareStreakName(n int) string {
	return streakName(spareStreakNames, n)
}

func streakName(names []string, n int) string {
	if n <= 0 || n > len(names) {
		return ""
	}
	return names[n-1]
}

const (
	kingWindow  = 5
	kingAverage = 150
)

// Achievement is a badge and the first game that earned it.
type Achievement struct {
	Title    string
	Desc     string
	Earned   bool
	GameID   string
	EarnedAt time.Time
}

type gameCheck func(rec model.GameRecord, m Metrics) bool

var gameAchievements = []struct {
	title string
	desc  string
	check gameCheck
}{
	{"100 Game", "Score 100 or more in a game", func(rec model.GameRecord, _ Metrics) bool { return rec.Score >= 100 }},
	{"150 Game", "Score 150 or more in a game", func(rec model.GameRecord, _ Metrics) bool { return rec.Score >= 150 }},
	{"Perfect Game", "Strike every ball for a perfect score", func(rec model.GameRecord, _ Metrics) bool { return rec.Score >= scoring.MaxScore }},
	{"Turkey", "Three strike frames in a row", func(_ model.GameRecord, m Metrics) bool { return m.MaxStrikeStreak >= 3 }},
	{"Hambone", "Four strike frames in a row", func(_ model.GameRecord, m Metrics) bool { return m.MaxStrikeStreak >= 4 }},
	{"Clean Game", "A game with no open frames", func(rec model.GameRecord, m Metrics) bool {
		return len(rec.Frames) == scoring.FrameCount && m.OpenFrames == 0
	}},
}

// Achievements evaluates badges over games in play order. Games without
// stored frames only qualify for score-based badges.
func Achievements(games []model.GameRecord) ([]Achievement, error) {
	out := make([]Achievement, 0, len(gameAchievements)+1)
	for _, a := range gameAchievements {
		out = append(out, Achievement{Title: a.title, Desc: a.desc})
	}
	for _, g := range games {
		frames, err := FramesFromRecord(g)
		if err != nil {
			return nil, err
		}
		m := GameMetrics(frames)
		for i, a := range gameAchievements {
			if out[i].Earned || !a.check(g, m) {
				continue
			}
			out[i].Earned = true
			out[i].GameID = g.PublicID
			out[i].EarnedAt = g.PlayedAt
		}
	}
	out = append(out, kingOfFivePin(games))
	return out, nil
}

func kingOfFivePin(games []model.GameRecord) Achievement {
	king := Achievement{Title: "King of 5-Pin", Desc: "Average 150 or more over five straight 5-pin games"}
	var window []model.GameRecord
	for _, g := range games {
		if g.Type != string(scoring.FivePin) {
			continue
		}
		window = append(window, g)
		if len(window) > kingWindow {
			window = window[1:]
		}
		if len(window) < kingWindow {
			continue
		}
		total := 0
		for _, w := range window {
			total += w.Score
		}
		if total >= kingAverage*kingWindow {
			king.Earned = true
			king.GameID = g.PublicID
			king.EarnedAt = g.PlayedAt
			return king
		}
	}
	return king
}

// EarnedCount returns how many achievements are earned.
func EarnedCount(achievements []Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.Earned {
			n++
		}
	}
	return n
}
