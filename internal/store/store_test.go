package store

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/pinscore/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pinscore.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testGame(playedAt time.Time, gameType, location string, score int) model.GameRecord {
	frames := make([]model.FrameRecord, 10)
	for i := range frames {
		frames[i] = model.FrameRecord{Balls: [3]string{"X", "", ""}, Cumulative: 15 * (i + 1)}
	}
	return model.GameRecord{
		PlayedAt: playedAt,
		Type:     gameType,
		Category: "League",
		Location: location,
		Score:    score,
		Strikes:  9,
		Frames:   frames,
	}
}

func TestInsertAndGetGame(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	played := time.Date(2026, 1, 4, 19, 30, 0, 0, time.UTC)
	game := testGame(played, "5-pin", "Bowlerama Barrie", 150)

	id, publicID, err := st.InsertGame(ctx, game)
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	if publicID == "" {
		t.Fatalf("expected generated public id")
	}

	for _, ref := range []string{publicID, strconv.FormatInt(id, 10)} {
		got, err := st.GetGame(ctx, ref)
		if err != nil {
			t.Fatalf("get game %s: %v", ref, err)
		}
		want := game
		want.ID = id
		want.PublicID = publicID
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("game mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGetGameNotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.GetGame(context.Background(), "missing")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestListGamesFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 12, 1, 18, 0, 0, 0, time.UTC)
	inputs := []model.GameRecord{
		testGame(base, "5-pin", "Playdium Mississauga", 120),
		testGame(base.Add(24*time.Hour), "10-pin", "Splitsville", 140),
		testGame(base.Add(48*time.Hour), "5-pin", "Bowlerama Barrie", 160),
		testGame(base.Add(72*time.Hour), "5-pin", "Playdium Mississauga", 130),
	}
	for _, g := range inputs {
		if _, _, err := st.InsertGame(ctx, g); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}

	all, err := st.ListGames(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(all) != 4 || all[0].Score != 120 || all[3].Score != 130 {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].Frames != nil {
		t.Fatalf("expected frames not loaded by ListGames")
	}

	fivePin, err := st.ListGames(ctx, model.HistoryConfig{Type: "5-pin", Last: 2})
	if err != nil {
		t.Fatalf("list 5-pin games: %v", err)
	}
	if len(fivePin) != 2 || fivePin[0].Score != 160 || fivePin[1].Score != 130 {
		t.Fatalf("unexpected 5-pin window: %+v", fivePin)
	}

	since := base.Add(36 * time.Hour)
	recent, err := st.ListGames(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 games since %v, got %d", since, len(recent))
	}

	search, err := st.ListGames(ctx, model.HistoryConfig{Search: "playdium"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(search) != 2 {
		t.Fatalf("expected 2 playdium games, got %d", len(search))
	}
	byDate, err := st.ListGames(ctx, model.HistoryConfig{Search: "2025-12-02"})
	if err != nil {
		t.Fatalf("search by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].Type != "10-pin" {
		t.Fatalf("unexpected date search result: %+v", byDate)
	}
}

func TestListGamesSearchIsLiteral(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
	for i, loc := range []string{"Lane_7 Lounge", "Lane 7 Lounge", "Back\\Alley"} {
		if _, _, err := st.InsertGame(ctx, testGame(base.Add(time.Duration(i)*time.Hour), "5-pin", loc, 100+i)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}

	cases := []struct {
		search string
		want   int
	}{
		{"%", 0},
		{"_", 1},
		{"lane_7", 1},
		{"lane%lounge", 0},
		{"back\\alley", 1},
		{"lane", 2},
	}
	for _, c := range cases {
		games, err := st.ListGames(ctx, model.HistoryConfig{Search: c.search})
		if err != nil {
			t.Fatalf("search %q: %v", c.search, err)
		}
		if len(games) != c.want {
			t.Fatalf("search %q: got %d games, want %d", c.search, len(games), c.want)
		}
	}
}

func TestListFramesForGames(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, _, err := st.InsertGame(ctx, testGame(time.Now(), "5-pin", "", 135))
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	frames, err := st.ListFramesForGames(ctx, []int64{id})
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}
	if len(frames[id]) != 10 || frames[id][9].Cumulative != 150 {
		t.Fatalf("unexpected frames: %+v", frames[id])
	}
	empty, err := st.ListFramesForGames(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v %v", empty, err)
	}
}
