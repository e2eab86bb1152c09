package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
)

func TestStreakNames(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{StrikeStreakName(0), ""},
		{StrikeStreakName(1), "Strike"},
		{StrikeStreakName(3), "Turkey"},
		{StrikeStreakName(12), "G.O.A.T"},
		{StrikeStreakName(20), "G.O.A.T"},
		{SpareStreakName(1), "Egg"},
		{SpareStreakName(10), "Eagle"},
		{SpareStreakName(11), ""},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, tc.got)
		}
	}
}

func recordWithScore(id string, gameType string, score int, at time.Time) model.GameRecord {
	return model.GameRecord{PublicID: id, Type: gameType, Score: score, PlayedAt: at}
}

func TestAchievementsPerfectAndClean(t *testing.T) {
	s, err := scoring.NewSession(scoring.DefaultRules())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for !s.Complete() {
		s.StrikeShortcut()
	}
	played := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)
	perfect := RecordFromState(s.State(), model.GameConfig{}, played)
	perfect.PublicID = "perfect"

	got, err := Achievements([]model.GameRecord{
		recordWithScore("early", "5-pin", 120, played.Add(-time.Hour)),
		perfect,
	})
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	byTitle := map[string]Achievement{}
	for _, a := range got {
		byTitle[a.Title] = a
	}
	if a := byTitle["100 Game"]; !a.Earned || a.GameID != "early" {
		t.Fatalf("expected 100 Game from first game, got %+v", a)
	}
	for _, title := range []string{"150 Game", "Perfect Game", "Turkey", "Hambone", "Clean Game"} {
		if a := byTitle[title]; !a.Earned || a.GameID != "perfect" {
			t.Fatalf("expected %s from perfect game, got %+v", title, a)
		}
	}
	if byTitle["King of 5-Pin"].Earned {
		t.Fatalf("king needs five games")
	}
}

func TestKingOfFivePin(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var games []model.GameRecord
	for i, score := range []int{150, 160, 200, 140, 145, 130, 155} {
		gameType := "5-pin"
		if i == 2 {
			gameType = "10-pin"
		}
		games = append(games, recordWithScore(string(rune('a'+i)), gameType, score, base.Add(time.Duration(i)*time.Hour)))
	}
	got, err := Achievements(games)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	king := got[len(got)-1]
	if king.Title != "King of 5-Pin" || king.Earned {
		t.Fatalf("expected king locked, got %+v", king)
	}

	games = append(games, recordWithScore("h", "5-pin", 200, base.Add(10*time.Hour)))
	got, err = Achievements(games)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	king = got[len(got)-1]
	if !king.Earned || king.GameID != "h" {
		t.Fatalf("expected king earned by game h, got %+v", king)
	}
}
