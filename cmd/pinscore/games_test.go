package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
	"github.com/verte-zerg/pinscore/internal/sim"
	"github.com/verte-zerg/pinscore/internal/stats"
	"github.com/verte-zerg/pinscore/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pinscore.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestValidateGameConfig(t *testing.T) {
	cfg := model.GameConfig{Type: "5pin", BallsPerFrame: 2, Category: "league", EntryMode: model.EntryVisual}
	rules, err := validateGameConfig(&cfg)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if rules.GameType != scoring.FivePin || rules.BallsPerFrame != 2 {
		t.Fatalf("unexpected rules: %+v", rules)
	}
	if cfg.Type != "5-pin" || cfg.Category != "League" {
		t.Fatalf("config not normalized: %+v", cfg)
	}

	cfg = model.GameConfig{Type: "10-pin", BallsPerFrame: 3, EntryMode: model.EntryVisual}
	if _, err := validateGameConfig(&cfg); !errors.Is(err, scoring.ErrUnsupportedGameType) {
		t.Fatalf("expected unsupported game type, got %v", err)
	}
	cfg = model.GameConfig{Type: "5-pin", BallsPerFrame: 4, EntryMode: model.EntryVisual}
	if _, err := validateGameConfig(&cfg); !errors.Is(err, scoring.ErrInvalidBallsPerFrame) {
		t.Fatalf("expected invalid balls per frame, got %v", err)
	}
	cfg = model.GameConfig{Type: "5-pin", BallsPerFrame: 3, Category: "Bowling night", EntryMode: model.EntryVisual}
	if _, err := validateGameConfig(&cfg); err == nil {
		t.Fatalf("expected category error")
	}
	cfg = model.GameConfig{Type: "5-pin", BallsPerFrame: 3, EntryMode: "voice"}
	if _, err := validateGameConfig(&cfg); err == nil {
		t.Fatalf("expected mode error")
	}
}

func TestReplayGameSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.txt")
	lines := strings.Repeat("X\n", 12)
	if err := os.WriteFile(path, []byte("# perfect\n"+lines), 0o644); err != nil {
		t.Fatalf("write throws: %v", err)
	}
	st := openTestStore(t)
	var out bytes.Buffer
	cfg := model.GameConfig{Type: "5-pin", BallsPerFrame: 3, Category: "League", EntryMode: model.EntryManual}
	if err := replayGame(testCommand(&out), path, cfg, scoring.DefaultRules(), st, zap.NewNop()); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out.String(), "Game total: 180 (complete)") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	games, err := st.ListGames(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 || games[0].Score != scoring.MaxScore || games[0].Strikes != 10 {
		t.Fatalf("unexpected saved games: %+v", games)
	}
}

func TestReplayGameReportsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.txt")
	if err := os.WriteFile(path, []byte("C5\nC5\n"), 0o644); err != nil {
		t.Fatalf("write throws: %v", err)
	}
	var out bytes.Buffer
	err := replayGame(testCommand(&out), path, model.GameConfig{}, scoring.DefaultRules(), nil, zap.NewNop())
	if err == nil {
		t.Fatalf("expected replay error")
	}
	if !strings.Contains(out.String(), "in progress") {
		t.Fatalf("expected partial scorecard, got:\n%s", out.String())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	bowler := sim.NewWithSeed(11, sim.DefaultProfile)
	start := time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)
	cfg := model.GameConfig{Type: "5-pin", Category: "Practice", Location: "Lanes"}
	for i := 0; i < 3; i++ {
		s, _, err := bowler.PlayGame(scoring.DefaultRules())
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		rec := stats.RecordFromState(s.State(), cfg, start.Add(time.Duration(i)*time.Hour))
		if _, _, err := src.InsertGame(context.Background(), rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := exportGames(context.Background(), &buf, src, model.HistoryConfig{}, start); err != nil {
		t.Fatalf("export: %v", err)
	}
	doc, err := loadExport(&buf)
	if err != nil {
		t.Fatalf("load export: %v", err)
	}
	if len(doc.Games) != 3 || !doc.ExportedAt.Equal(start) {
		t.Fatalf("unexpected document: %d games at %v", len(doc.Games), doc.ExportedAt)
	}

	dst := openTestStore(t)
	n, err := importGames(context.Background(), dst, doc.Games)
	if err != nil || n != 3 {
		t.Fatalf("import: n=%d err=%v", n, err)
	}
	n, err = importGames(context.Background(), dst, doc.Games)
	if err != nil || n != 0 {
		t.Fatalf("second import should skip duplicates: n=%d err=%v", n, err)
	}

	want, err := src.GetGame(context.Background(), doc.Games[1].PublicID)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	got, err := dst.GetGame(context.Background(), doc.Games[1].PublicID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	want.ID, got.ID = 0, 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("imported game mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRejectsInvalidGames(t *testing.T) {
	frames := make([]model.FrameRecord, scoring.FrameCount)
	for i := range frames {
		frames[i] = model.FrameRecord{Balls: [3]string{"X", "", ""}, Cumulative: 15 * (i + 1)}
	}
	valid := model.GameRecord{PublicID: "good", PlayedAt: time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC), Type: "5-pin", Category: "League", Score: 150, Strikes: 10, Frames: frames}

	badSymbol := valid
	badSymbol.PublicID = "bad-symbol"
	badSymbol.Frames = append([]model.FrameRecord(nil), frames...)
	badSymbol.Frames[0].Balls[0] = "Q"

	short := valid
	short.PublicID = "short"
	short.Frames = frames[:4]

	badType := valid
	badType.PublicID = "bad-type"
	badType.Type = "candlepin"

	for _, bad := range []model.GameRecord{badSymbol, short, badType} {
		st := openTestStore(t)
		n, err := importGames(context.Background(), st, []model.GameRecord{valid, bad})
		if err == nil {
			t.Fatalf("%s: expected import error", bad.PublicID)
		}
		if n != 0 || !strings.Contains(err.Error(), bad.PublicID) {
			t.Fatalf("%s: n=%d err=%v", bad.PublicID, n, err)
		}
		games, err := st.ListGames(context.Background(), model.HistoryConfig{})
		if err != nil {
			t.Fatalf("list games: %v", err)
		}
		if len(games) != 0 {
			t.Fatalf("%s: expected nothing stored, got %d games", bad.PublicID, len(games))
		}
		var out bytes.Buffer
		if err := printHistory(context.Background(), &out, st, model.HistoryConfig{CurveWindow: 5}); err != nil {
			t.Fatalf("%s: history broken after rejected import: %v", bad.PublicID, err)
		}
	}

	st := openTestStore(t)
	noFrames := valid
	noFrames.PublicID = "no-frames"
	noFrames.Frames = nil
	if n, err := importGames(context.Background(), st, []model.GameRecord{valid, noFrames}); err != nil || n != 2 {
		t.Fatalf("valid import: n=%d err=%v", n, err)
	}
}

func TestLoadExportEmpty(t *testing.T) {
	if _, err := loadExport(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty export")
	}
}

func TestPrintHistory(t *testing.T) {
	st := openTestStore(t)
	var out bytes.Buffer
	if err := printHistory(context.Background(), &out, st, model.HistoryConfig{CurveWindow: 5}); err != nil {
		t.Fatalf("print empty history: %v", err)
	}
	if !strings.Contains(out.String(), "No games found.") {
		t.Fatalf("unexpected empty output:\n%s", out.String())
	}
}
