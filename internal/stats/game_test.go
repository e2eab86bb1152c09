package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
	"github.com/verte-zerg/pinscore/internal/throws"
)

func frame(balls ...scoring.Ball) scoring.Frame {
	var f scoring.Frame
	copy(f.Balls[:], balls)
	return f
}

func TestOutcome(t *testing.T) {
	cases := []struct {
		name  string
		frame scoring.Frame
		want  FrameOutcome
	}{
		{"strike", frame(scoring.Strike), OutcomeStrike},
		{"spare", frame(scoring.Headpin, scoring.Spare), OutcomeSpare},
		{"third ball spare", frame(scoring.Pins(2), scoring.Pins(3), scoring.Spare), OutcomeSpare},
		{"open", frame(scoring.Ace, scoring.Pins(2)), OutcomeOpen},
		{"final strike then spare", frame(scoring.Strike, scoring.Pins(5), scoring.Spare), OutcomeStrike},
		{"gutter then strike shortcut", frame(scoring.Miss, scoring.Strike), OutcomeSpare},
		{"empty", frame(), OutcomeOpen},
	}
	for _, tc := range cases {
		if got := Outcome(tc.frame); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestGameMetricsStreaks(t *testing.T) {
	var frames [scoring.FrameCount]scoring.Frame
	for i := 0; i < 4; i++ {
		frames[i] = frame(scoring.Strike)
	}
	frames[4] = frame(scoring.Pins(5), scoring.Miss, scoring.Miss)
	for i := 5; i < 8; i++ {
		frames[i] = frame(scoring.Pins(3), scoring.Spare)
	}
	frames[8] = frame(scoring.Strike)
	frames[9] = frame(scoring.Strike, scoring.Strike, scoring.Pins(7))

	got := GameMetrics(frames)
	want := Metrics{Strikes: 6, Spares: 3, OpenFrames: 1, MaxStrikeStreak: 4, MaxSpareStreak: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordFromStateRoundTrip(t *testing.T) {
	s, err := scoring.NewSession(scoring.DefaultRules())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.TapPin(scoring.PinC5)
	s.ConfirmBall()
	s.StrikeShortcut()
	s.StrikeShortcut()

	played := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	rec := RecordFromState(s.State(), model.GameConfig{Category: "Practice", Location: "Home"}, played)
	if rec.Type != "5-pin" || rec.Score != 35 || rec.Strikes != 1 || rec.Spares != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Frames[0].Balls != [3]string{"H", "/", ""} || rec.Frames[1].Cumulative != 35 {
		t.Fatalf("unexpected frames: %+v", rec.Frames[:2])
	}

	frames, err := FramesFromRecord(rec)
	if err != nil {
		t.Fatalf("frames from record: %v", err)
	}
	if diff := cmp.Diff(s.Frames(), frames, cmp.AllowUnexported(scoring.Ball{})); diff != "" {
		t.Fatalf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestFramesFromRecordRejectsBadSymbol(t *testing.T) {
	rec := model.GameRecord{PublicID: "g1", Frames: []model.FrameRecord{{Balls: [3]string{"Q", "", ""}}}}
	if _, err := FramesFromRecord(rec); err == nil {
		t.Fatalf("expected error for bad symbol")
	}
}

func TestFinalFrameGutterThenStrikeShortcutIsSpare(t *testing.T) {
	s, err := scoring.NewSession(scoring.DefaultRules())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for s.CurrentFrameIndex() < scoring.LastFrame {
		s.StrikeShortcut()
	}
	s.GutterShortcut()
	if !s.CanStrike() {
		t.Fatalf("expected strike shortcut after a final-frame gutter")
	}
	s.StrikeShortcut()
	f := s.Frames()[scoring.LastFrame]
	if f.Balls[0] != scoring.Miss || f.Balls[1] != scoring.Strike {
		t.Fatalf("unexpected final frame balls: %q %q", f.Balls[0], f.Balls[1])
	}
	if got := Outcome(f); got != OutcomeSpare {
		t.Fatalf("expected spare outcome, got %v", got)
	}
}

func TestReplayedGutterThenStrikeCountsAsSpare(t *testing.T) {
	played, err := throws.Parse(strings.NewReader("-\nX\n"))
	if err != nil {
		t.Fatalf("parse throws: %v", err)
	}
	s, err := scoring.NewSession(scoring.DefaultRules())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := throws.Replay(s, played); err != nil {
		t.Fatalf("replay: %v", err)
	}
	f := s.Frames()[0]
	if f.Score() != scoring.RackValue {
		t.Fatalf("expected frame worth %d, got %d", scoring.RackValue, f.Score())
	}
	m := GameMetrics(s.Frames())
	if m.Spares != 1 || m.Strikes != 0 || m.MaxSpareStreak != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
