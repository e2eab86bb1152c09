// Package store handles SQLite persistence of finished games.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/pinscore/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrGameNotFound is returned when a game lookup has no match.
var ErrGameNotFound = errors.New("game not found")

// Fixed-width UTC timestamps keep played_at lexically sortable.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			public_id TEXT NOT NULL UNIQUE,
			played_at TEXT NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			location TEXT NOT NULL,
			score INTEGER NOT NULL,
			strikes INTEGER NOT NULL,
			spares INTEGER NOT NULL,
			open_frames INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_frames (
			game_id INTEGER NOT NULL,
			frame_index INTEGER NOT NULL,
			ball1 TEXT NOT NULL,
			ball2 TEXT NOT NULL,
			ball3 TEXT NOT NULL,
			cumulative INTEGER NOT NULL,
			PRIMARY KEY (game_id, frame_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at);`,
		`CREATE INDEX IF NOT EXISTS idx_games_type ON games(type);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a finished game and its frames. A public ID is assigned
// when the record has none. It returns the row ID and the public ID.
func (s *Store) InsertGame(ctx context.Context, game model.GameRecord) (int64, string, error) {
	publicID := game.PublicID
	if publicID == "" {
		publicID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := tx.Rollback(); rerr != nil {
			// Best-effort rollback.
			_ = rerr
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO games (public_id, played_at, type, category, location, score, strikes, spares, open_frames)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		publicID,
		game.PlayedAt.UTC().Format(timeLayout),
		game.Type,
		game.Category,
		game.Location,
		game.Score,
		game.Strikes,
		game.Spares,
		game.OpenFrames,
	)
	if err != nil {
		return 0, "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", err
	}

	if len(game.Frames) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO game_frames (game_id, frame_index, ball1, ball2, ball3, cumulative)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, f := range game.Frames {
			if _, err := stmt.ExecContext(ctx, id, i, f.Balls[0], f.Balls[1], f.Balls[2], f.Cumulative); err != nil {
				return 0, "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	committed = true
	return id, publicID, nil
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListGames returns games matching the history filters, oldest first.
// Frames are not loaded.
func (s *Store) ListGames(ctx context.Context, cfg model.HistoryConfig) ([]model.GameRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, cfg.Type)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	if search := strings.TrimSpace(strings.ToLower(cfg.Search)); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		clauses = append(clauses, `(lower(location) LIKE ? ESCAPE '\' OR lower(category) LIKE ? ESCAPE '\' OR played_at LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	query := fmt.Sprintf(`SELECT id, public_id, played_at, type, category, location, score, strikes, spares, open_frames
		FROM games
		WHERE %s
		ORDER BY played_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameRecord
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}
	return games, nil
}

// GetGame loads one game with its frames by row ID or public ID.
func (s *Store) GetGame(ctx context.Context, ref string) (model.GameRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, public_id, played_at, type, category, location, score, strikes, spares, open_frames
		 FROM games WHERE public_id = ? OR CAST(id AS TEXT) = ?`, ref, ref)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GameRecord{}, fmt.Errorf("%w: %s", ErrGameNotFound, ref)
	}
	if err != nil {
		return model.GameRecord{}, err
	}
	frames, err := s.ListFramesForGames(ctx, []int64{game.ID})
	if err != nil {
		return model.GameRecord{}, err
	}
	game.Frames = frames[game.ID]
	return game, nil
}

// ListFramesForGames returns stored frames keyed by game ID, in frame order.
func (s *Store) ListFramesForGames(ctx context.Context, gameIDs []int64) (map[int64][]model.FrameRecord, error) {
	if len(gameIDs) == 0 {
		return map[int64][]model.FrameRecord{}, nil
	}
	placeholders := make([]string, len(gameIDs))
	args := make([]any, len(gameIDs))
	for i, id := range gameIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT game_id, ball1, ball2, ball3, cumulative
		FROM game_frames
		WHERE game_id IN (%s)
		ORDER BY game_id, frame_index`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64][]model.FrameRecord{}
	for rows.Next() {
		var gameID int64
		var f model.FrameRecord
		if err := rows.Scan(&gameID, &f.Balls[0], &f.Balls[1], &f.Balls[2], &f.Cumulative); err != nil {
			return nil, err
		}
		result[gameID] = append(result[gameID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (model.GameRecord, error) {
	var game model.GameRecord
	var playedAt string
	if err := row.Scan(&game.ID, &game.PublicID, &playedAt, &game.Type, &game.Category, &game.Location,
		&game.Score, &game.Strikes, &game.Spares, &game.OpenFrames); err != nil {
		return model.GameRecord{}, err
	}
	parsed, err := time.Parse(timeLayout, playedAt)
	if err != nil {
		return model.GameRecord{}, err
	}
	game.PlayedAt = parsed
	return game, nil
}
