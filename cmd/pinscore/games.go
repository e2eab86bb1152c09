package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pinscore/internal/config"
	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
	"github.com/verte-zerg/pinscore/internal/sim"
	"github.com/verte-zerg/pinscore/internal/stats"
	"github.com/verte-zerg/pinscore/internal/store"
	"github.com/verte-zerg/pinscore/internal/throws"
)

var (
	historyType        string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historySearch      string
	historyPlain       bool

	replaySave     bool
	replayCategory string
	replayLocation string

	simulateGames         int
	simulateSeed          int64
	simulateBallsPerFrame int
	simulateSave          bool
	simulateDump          string

	exportOut string
)

func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historyType, "type", "", "game type filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&historySearch, "search", "", "match location, category or date")
}

func resolveHistoryConfig(cmd *cobra.Command) (model.HistoryConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.HistoryConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "type", &historyType, fileCfg.History.Type)
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	applyIntConfig(cmd, "curve-window", &historyCurveWindow, fileCfg.History.CurveWindow)

	if historyLast < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return model.HistoryConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	since, err := parseSince(historySince)
	if err != nil {
		return model.HistoryConfig{}, err
	}
	cfg := model.HistoryConfig{
		Since:       since,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
		Search:      historySearch,
	}
	if historyType != "" {
		gt, err := scoring.ParseGameType(historyType)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("--type must be 5-pin or 10-pin: %w", err)
		}
		cfg.Type = string(gt)
	}
	return cfg, nil
}

func printHistory(ctx context.Context, w io.Writer, st *store.Store, cfg model.HistoryConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.RenderSummary(w, report.Games); err != nil {
		return err
	}
	if len(report.Games) == 0 {
		return nil
	}
	if err := stats.RenderGameTable(w, report.Games); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Games, cfg.CurveWindow); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderAchievements(w, report.Achievements)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Score a game from a throws file",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().BoolVar(&replaySave, "save", false, "save the game when it is complete")
	cmd.Flags().StringVar(&replayCategory, "category", defaultCategory, "game category")
	cmd.Flags().StringVar(&replayLocation, "location", "", "where the game was played")
	cmd.Flags().IntVar(&gameBallsPerFrame, "balls-per-frame", scoring.DefaultBallsPerFrame, "balls in frames 1-9 (2 or 3)")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "balls-per-frame", &gameBallsPerFrame, fileCfg.Game.BallsPerFrame)
	applyStringConfig(cmd, "category", &replayCategory, fileCfg.Game.Category)
	applyStringConfig(cmd, "location", &replayLocation, fileCfg.Game.Location)

	cfg := model.GameConfig{
		Type:          defaultType,
		BallsPerFrame: gameBallsPerFrame,
		Category:      replayCategory,
		Location:      replayLocation,
		EntryMode:     model.EntryManual,
	}
	rules, err := validateGameConfig(&cfg)
	if err != nil {
		return err
	}

	logger, err := openLogger(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	var st *store.Store
	if replaySave {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}
	return replayGame(cmd, args[0], cfg, rules, st, logger)
}

// replayGame scores the throws in path and prints the scorecard. A complete
// game is saved when st is non-nil.
func replayGame(cmd *cobra.Command, path string, cfg model.GameConfig, rules scoring.Rules, st *store.Store, logger *zap.Logger) error {
	played, err := throws.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load throws: %w", err)
	}
	s, err := scoring.NewSession(rules)
	if err != nil {
		return err
	}
	replayErr := throws.Replay(s, played)
	if err := stats.RenderScorecard(cmd.OutOrStdout(), s.State()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if replayErr != nil {
		return fmt.Errorf("failed to replay %s: %w", path, replayErr)
	}
	logger.Info("game replayed", zap.String("file", path), zap.Int("throws", len(played)), zap.Int("score", s.GameTotal()))
	if !s.Complete() {
		logErrln("Game is not complete; not saved.")
		return nil
	}
	if st == nil {
		return nil
	}
	rec := stats.RecordFromState(s.State(), cfg, time.Now())
	_, publicID, err := st.InsertGame(cmd.Context(), rec)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	logger.Info("game saved", zap.String("id", publicID), zap.Int("score", rec.Score))
	logErrf("Saved game %s\n", publicID)
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play random games",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simulateGames, "games", 1, "number of games")
	cmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().IntVar(&simulateBallsPerFrame, "balls-per-frame", scoring.DefaultBallsPerFrame, "balls in frames 1-9 (2 or 3)")
	cmd.Flags().BoolVar(&simulateSave, "save", false, "save games to history as Practice")
	cmd.Flags().StringVar(&simulateDump, "dump", "", "directory to write one throws file per game")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if simulateGames <= 0 {
		return fmt.Errorf("--games must be > 0")
	}
	rules := scoring.Rules{GameType: scoring.FivePin, BallsPerFrame: simulateBallsPerFrame}
	if err := rules.Validate(); err != nil {
		return err
	}
	bowler := sim.New(sim.DefaultProfile)
	if simulateSeed != 0 {
		bowler = sim.NewWithSeed(simulateSeed, sim.DefaultProfile)
	}

	var st *store.Store
	if simulateSave {
		var err error
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}
	if simulateDump != "" {
		if err := os.MkdirAll(simulateDump, 0o755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	cfg := model.GameConfig{Type: string(rules.GameType), BallsPerFrame: rules.BallsPerFrame, Category: "Practice", EntryMode: model.EntryManual}
	games := make([]model.GameRecord, 0, simulateGames)
	for i := 1; i <= simulateGames; i++ {
		s, played, err := bowler.PlayGame(rules)
		if err != nil {
			return fmt.Errorf("failed to simulate game %d: %w", i, err)
		}
		rec := stats.RecordFromState(s.State(), cfg, time.Now())
		games = append(games, rec)
		if simulateGames == 1 {
			if err := stats.RenderScorecard(out, s.State()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else if _, err := fmt.Fprintf(out, "Game %d: %d (strikes %d, spares %d, open %d)\n", i, rec.Score, rec.Strikes, rec.Spares, rec.OpenFrames); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if simulateDump != "" {
			if err := writeThrows(filepath.Join(simulateDump, fmt.Sprintf("game-%03d.txt", i)), played); err != nil {
				return err
			}
		}
		if st != nil {
			if _, _, err := st.InsertGame(cmd.Context(), rec); err != nil {
				return fmt.Errorf("failed to save game %d: %w", i, err)
			}
		}
	}
	if simulateGames > 1 {
		s := stats.Summarize(games)
		if _, err := fmt.Fprintf(out, "\nAverage %.1f  High %d  High series %d\n", s.Average, s.HighGame, s.HighSeries); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeThrows(path string, played []throws.Throw) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create throws file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close throws file: %w", cerr)
		}
	}()
	if err := throws.Write(f, played); err != nil {
		return fmt.Errorf("failed to write throws file: %w", err)
	}
	return nil
}

// exportDocument is the YAML layout written by the export command.
type exportDocument struct {
	ExportedAt time.Time          `yaml:"exported_at"`
	Games      []model.GameRecord `yaml:"games"`
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved games as YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addHistoryFlags(cmd)
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := resolveHistoryConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close export file: %w", cerr)
			}
		}()
		w = f
	}
	return exportGames(cmd.Context(), w, st, cfg, time.Now())
}

func exportGames(ctx context.Context, w io.Writer, st *store.Store, cfg model.HistoryConfig, now time.Time) error {
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	frames, err := st.ListFramesForGames(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load frames: %w", err)
	}
	for i := range games {
		games[i].Frames = frames[games[i].ID]
	}
	if games == nil {
		games = []model.GameRecord{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportDocument{ExportedAt: now.UTC(), Games: games}); err != nil {
		return fmt.Errorf("failed to encode games: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode games: %w", err)
	}
	return nil
}

// loadExport reads a document written by exportGames.
func loadExport(r io.Reader) (exportDocument, error) {
	var doc exportDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return exportDocument{}, fmt.Errorf("export is empty")
		}
		return exportDocument{}, fmt.Errorf("failed to decode export: %w", err)
	}
	return doc, nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add games from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close after read.
			_ = cerr
		}
	}()
	doc, err := loadExport(f)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	imported, err := importGames(cmd.Context(), st, doc.Games)
	if err != nil {
		return err
	}
	logErrf("Imported %d of %d games\n", imported, len(doc.Games))
	return nil
}

// importGames inserts games that are not already stored under the same
// public ID and returns how many were added. Nothing is inserted when any
// game fails validation.
func importGames(ctx context.Context, st *store.Store, games []model.GameRecord) (int, error) {
	for i, g := range games {
		if err := validateImportedGame(g); err != nil {
			return 0, fmt.Errorf("failed to import game %d (%s): %w", i+1, g.PublicID, err)
		}
	}
	imported := 0
	for _, g := range games {
		if g.PublicID != "" {
			_, err := st.GetGame(ctx, g.PublicID)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrGameNotFound) {
				return imported, fmt.Errorf("failed to check game %s: %w", g.PublicID, err)
			}
		}
		if _, _, err := st.InsertGame(ctx, g); err != nil {
			return imported, fmt.Errorf("failed to import game: %w", err)
		}
		imported++
	}
	return imported, nil
}

// validateImportedGame checks that a record can be read back by the history
// views: a known game type and either no frames or a full, parseable set.
func validateImportedGame(g model.GameRecord) error {
	if _, err := scoring.ParseGameType(g.Type); err != nil {
		return err
	}
	if n := len(g.Frames); n != 0 && n != scoring.FrameCount {
		return fmt.Errorf("expected %d frames, got %d", scoring.FrameCount, n)
	}
	if _, err := stats.FramesFromRecord(g); err != nil {
		return err
	}
	return nil
}
