package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

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

func seedGames(t *testing.T, st *store.Store, n int) {
	t.Helper()
	bowler := sim.NewWithSeed(7, sim.DefaultProfile)
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	cfg := model.GameConfig{Type: string(scoring.FivePin), Category: "League", Location: "Bowlerama"}
	for i := 0; i < n; i++ {
		s, _, err := bowler.PlayGame(scoring.DefaultRules())
		if err != nil {
			t.Fatalf("play game: %v", err)
		}
		rec := stats.RecordFromState(s.State(), cfg, start.Add(time.Duration(i)*24*time.Hour))
		if _, _, err := st.InsertGame(context.Background(), rec); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, c := range cases {
		if got := nextCurveWindow(c.in); got != c.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", c.in, got, c.next)
		}
		if got := prevCurveWindow(c.in); got != c.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", c.in, got, c.prev)
		}
	}
}

func TestApplyFilterValidation(t *testing.T) {
	m := NewModel(openTestStore(t), model.HistoryConfig{CurveWindow: 5})

	bad := []struct {
		field int
		value string
	}{
		{fieldType, "candlepin"},
		{fieldSince, "03/01/2026"},
		{fieldLast, "-2"},
		{fieldWindow, "0"},
	}
	for _, c := range bad {
		m.setInputsFromConfig()
		m.filterInputs[c.field].SetValue(c.value)
		if err := m.applyFilter(); err == nil {
			t.Fatalf("expected error for field %d value %q", c.field, c.value)
		}
	}

	m.setInputsFromConfig()
	m.filterInputs[fieldType].SetValue("5pin")
	m.filterInputs[fieldSince].SetValue("2026-03-01")
	m.filterInputs[fieldLast].SetValue("10")
	m.filterInputs[fieldSearch].SetValue(" Bowlerama ")
	m.filterInputs[fieldWindow].SetValue("3")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if m.cfg.Type != "5-pin" || m.cfg.Last != 10 || m.cfg.CurveWindow != 3 || m.cfg.Search != "Bowlerama" {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
	if m.cfg.Since == nil || m.cfg.Since.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected since: %v", m.cfg.Since)
	}
}

func TestEmptyHistoryView(t *testing.T) {
	m := NewModel(openTestStore(t), model.HistoryConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	if !strings.Contains(view, "No games found.") {
		t.Fatalf("expected empty message, got:\n%s", view)
	}
	if !strings.Contains(view, "type=any") {
		t.Fatalf("expected settings line, got:\n%s", view)
	}
}

func TestBrowseGamesAndScorecard(t *testing.T) {
	st := openTestStore(t)
	seedGames(t, st, 4)
	m := NewModel(st, model.HistoryConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if len(m.report.Games) != 4 {
		t.Fatalf("expected 4 games, got %d", len(m.report.Games))
	}
	view := m.View()
	for _, want := range []string{"Overview", "High Series", "Score Curve"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview, got:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabGames {
		t.Fatalf("expected games tab, got %d", m.activeTab)
	}
	if view := m.View(); !strings.Contains(view, "Bowlerama") {
		t.Fatalf("expected games table, got:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detailMode {
		t.Fatalf("expected scorecard modal")
	}
	if m.detail.PublicID != m.report.Games[3].PublicID {
		t.Fatalf("expected last game selected")
	}
	if view := m.View(); !strings.Contains(view, "Frame") || !strings.Contains(view, "Enter/Esc to close") {
		t.Fatalf("expected scorecard in modal, got:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detailMode {
		t.Fatalf("expected modal closed")
	}
}

func TestFilterKeysRefreshReport(t *testing.T) {
	st := openTestStore(t)
	seedGames(t, st, 3)
	m := NewModel(st, model.HistoryConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(keyRunes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[fieldLast].SetValue("2")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter applied, error %q", m.filterError)
	}
	if len(m.report.Games) != 2 {
		t.Fatalf("expected 2 games after filter, got %d", len(m.report.Games))
	}

	m.Update(keyRunes("="))
	if m.cfg.CurveWindow != 10 {
		t.Fatalf("expected window 10, got %d", m.cfg.CurveWindow)
	}
	m.Update(keyRunes("-"))
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("ab\ncdef\ng", 3, 2)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "ab " || lines[1] != "cdef" {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if got := truncateLine("location", 6); got != "loc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestGameFramesNameBestRuns(t *testing.T) {
	frames := make([]model.FrameRecord, scoring.FrameCount)
	for i := range frames {
		frames[i] = model.FrameRecord{Balls: [3]string{"H", "-", "-"}}
	}
	for i := 0; i < 3; i++ {
		frames[i] = model.FrameRecord{Balls: [3]string{"H", "/", ""}}
	}
	frames[5] = model.FrameRecord{Balls: [3]string{"X", "", ""}}
	frames[6] = model.FrameRecord{Balls: [3]string{"X", "", ""}}
	g := model.GameRecord{PublicID: "runs", Type: string(scoring.FivePin), Frames: frames}

	summary := strings.Join(renderGameFrames(g, 120), "\n")
	for _, want := range []string{"Best spare run: Chicken", "Best strike run: Double"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("expected %q in scorecard, got:\n%s", want, summary)
		}
	}

	for i := range frames {
		frames[i] = model.FrameRecord{Balls: [3]string{"H", "-", "-"}}
	}
	summary = strings.Join(renderGameFrames(g, 120), "\n")
	if strings.Contains(summary, "Best spare run") || strings.Contains(summary, "Best strike run") {
		t.Fatalf("open game should not name a run, got:\n%s", summary)
	}
}
