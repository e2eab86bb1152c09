// Package main provides the CLI entrypoint for pinscore.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/pinscore/internal/config"
	"github.com/verte-zerg/pinscore/internal/logging"
	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
	"github.com/verte-zerg/pinscore/internal/statsui"
	"github.com/verte-zerg/pinscore/internal/store"
	"github.com/verte-zerg/pinscore/internal/tui"
)

const (
	defaultType        = "5-pin"
	defaultCategory    = "Casual"
	defaultMode        = model.EntryVisual
	defaultCurveWindow = 5
)

var (
	gameType          string
	gameBallsPerFrame int
	gameCategory      string
	gameLocation      string
	gameMode          string
	gameThrows        string
	gameNoSave        bool

	logLevel string
	logFile  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pinscore",
		Short:         "5-pin bowling scorekeeper",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runScoreCmd,
	}

	rootCmd.Flags().StringVar(&gameType, "type", defaultType, "game type (5-pin)")
	rootCmd.Flags().IntVar(&gameBallsPerFrame, "balls-per-frame", scoring.DefaultBallsPerFrame, "balls in frames 1-9 (2 or 3)")
	rootCmd.Flags().StringVar(&gameCategory, "category", defaultCategory, "game category ("+strings.Join(model.Categories, ", ")+")")
	rootCmd.Flags().StringVar(&gameLocation, "location", "", "where the game is played")
	rootCmd.Flags().StringVar(&gameMode, "mode", defaultMode, "entry mode (visual or manual)")
	rootCmd.Flags().StringVar(&gameThrows, "throws", "", "throws file for manual entry")
	rootCmd.Flags().BoolVar(&gameNoSave, "no-save", false, "do not save the finished game")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "type", &gameType, fileCfg.Game.Type)
	applyIntConfig(cmd, "balls-per-frame", &gameBallsPerFrame, fileCfg.Game.BallsPerFrame)
	applyStringConfig(cmd, "category", &gameCategory, fileCfg.Game.Category)
	applyStringConfig(cmd, "location", &gameLocation, fileCfg.Game.Location)
	applyStringConfig(cmd, "mode", &gameMode, fileCfg.Game.EntryMode)

	cfg := model.GameConfig{
		Type:          gameType,
		BallsPerFrame: gameBallsPerFrame,
		Category:      gameCategory,
		Location:      strings.TrimSpace(gameLocation),
		EntryMode:     strings.ToLower(strings.TrimSpace(gameMode)),
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
	if !gameNoSave {
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

	if cfg.EntryMode == model.EntryManual {
		if gameThrows == "" {
			return fmt.Errorf("--throws is required with --mode manual")
		}
		return replayGame(cmd, gameThrows, cfg, rules, st, logger)
	}

	m, err := tui.NewModel(cfg, rules, st, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// validateGameConfig normalizes cfg in place and returns the scoring rules.
func validateGameConfig(cfg *model.GameConfig) (scoring.Rules, error) {
	gt, err := scoring.ParseGameType(cfg.Type)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("--type must be 5-pin: %w", err)
	}
	rules := scoring.Rules{GameType: gt, BallsPerFrame: cfg.BallsPerFrame}
	if err := rules.Validate(); err != nil {
		return scoring.Rules{}, err
	}
	category, ok := normalizeCategory(cfg.Category)
	if !ok {
		return scoring.Rules{}, fmt.Errorf("--category must be one of %s", strings.Join(model.Categories, ", "))
	}
	switch cfg.EntryMode {
	case model.EntryVisual, model.EntryManual:
	default:
		return scoring.Rules{}, fmt.Errorf("--mode must be %s or %s", model.EntryVisual, model.EntryManual)
	}
	cfg.Type = string(gt)
	cfg.Category = category
	return rules, nil
}

func normalizeCategory(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultCategory, true
	}
	for _, c := range model.Categories {
		if strings.EqualFold(c, value) {
			return c, true
		}
	}
	return "", false
}

func openLogger(cmd *cobra.Command, fileCfg config.FileConfig) (*zap.Logger, error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	logger, err := logging.New(logLevel, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pinscore configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# type = %q            # Game type (only 5-pin is supported)
# balls-per-frame = %d     # Balls in frames 1-9 (2 or 3)
# category = %q       # %s
# location = ""            # Where you bowl
# entry-mode = %q      # visual (tap pins) or manual (replay --throws)

[history]
# type = %q            # Default type filter
# last = 0                 # Limit to last N games (0 = all)
# curve-window = %d         # Moving average window

[log]
# level = %q             # debug, info, warn, error
# file = %q
`,
		defaultType,
		scoring.DefaultBallsPerFrame,
		defaultCategory,
		strings.Join(model.Categories, ", "),
		defaultMode,
		defaultType,
		defaultCurveWindow,
		logging.DefaultLevel,
		config.DefaultLogPath(),
	)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved games, stats and achievements",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addHistoryFlags(cmd)
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print to stdout instead of opening the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
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

	if historyPlain {
		return printHistory(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
