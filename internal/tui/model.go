// Package tui provides the Bubble Tea scoring interface.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/scoring"
	statsPkg "github.com/verte-zerg/pinscore/internal/stats"
	"github.com/verte-zerg/pinscore/internal/store"
)

// Model implements the Bubble Tea scoring UI.
type Model struct {
	config  model.GameConfig
	rules   scoring.Rules
	session *scoring.Session
	store   *store.Store
	logger  *zap.Logger
	now     func() time.Time

	keys keyMap
	help help.Model

	width  int
	height int

	savedID    string
	status     string
	finished   bool
	saveFailed bool

	historyGames   int
	historyAverage float64
	historyHigh    int
}

// NewModel constructs a scoring TUI model. A nil store disables saving.
func NewModel(cfg model.GameConfig, rules scoring.Rules, st *store.Store, logger *zap.Logger) (*Model, error) {
	session, err := scoring.NewSession(rules)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config:  cfg,
		rules:   rules,
		session: session,
		store:   st,
		logger:  logger.With(zap.String("type", string(rules.GameType))),
		now:     time.Now,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.loadFooterStats()
	m.syncKeys()
	m.logger.Info("game started", zap.Int("balls_per_frame", rules.BallsPerFrame))
	return m, nil
}

// Session exposes the game being scored.
func (m *Model) Session() *scoring.Session {
	return m.session
}

// SavedID returns the public ID of the saved game, if any.
func (m *Model) SavedID() string {
	return m.savedID
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.syncKeys()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Pins):
		pin := scoring.Pin(msg.String()[0] - '1')
		if m.session.TapPin(pin) {
			m.logger.Debug("pin tapped", zap.Stringer("pin", pin), zap.Stringer("pending", m.session.Pending()))
		}
	case key.Matches(msg, m.keys.Confirm):
		m.commitWith(m.session.ConfirmBall)
	case key.Matches(msg, m.keys.Strike):
		m.commitWith(m.session.StrikeShortcut)
	case key.Matches(msg, m.keys.Gutter):
		m.commitWith(m.session.GutterShortcut)
	case key.Matches(msg, m.keys.Reset):
		hadPending := !m.session.Pending().IsEmpty()
		if m.session.ResetOrUndo() && !hadPending {
			m.logger.Info("ball undone",
				zap.Int("frame", m.session.CurrentFrameIndex()+1),
				zap.Int("ball", m.session.CurrentBallIndex()+1))
			m.finished = false
			m.status = ""
		}
	case key.Matches(msg, m.keys.NewGame):
		m.newGame()
	}
}

// commitWith runs a committing session action, logs the recorded ball, and
// finishes the game once it is complete.
func (m *Model) commitWith(action func() bool) {
	frame, ball := m.session.CurrentFrameIndex(), m.session.CurrentBallIndex()
	if !action() {
		return
	}
	m.logger.Info("ball committed",
		zap.Int("frame", frame+1),
		zap.Int("ball", ball+1),
		zap.Stringer("symbol", m.session.Frames()[frame].Balls[ball]),
		zap.Int("total", m.session.GameTotal()))
	if m.session.Complete() && !m.finished {
		m.finishGame()
	}
}

func (m *Model) finishGame() {
	m.finished = true
	total := m.session.GameTotal()
	if m.store == nil {
		m.status = fmt.Sprintf("Game complete: %d (not saved)", total)
		m.logger.Info("game complete", zap.Int("score", total))
		return
	}
	rec := statsPkg.RecordFromState(m.session.State(), m.config, m.now())
	_, publicID, err := m.store.InsertGame(context.Background(), rec)
	if err != nil {
		m.status = fmt.Sprintf("Game complete: %d (failed to save: %v)", total, err)
		m.saveFailed = true
		m.logger.Error("failed to save game", zap.Error(err))
		return
	}
	m.savedID = publicID
	m.status = fmt.Sprintf("Game complete: %d · saved", total)
	m.logger.Info("game saved",
		zap.String("id", publicID),
		zap.Int("score", total),
		zap.Int("strikes", rec.Strikes),
		zap.Int("spares", rec.Spares))
	m.historyAverage = (m.historyAverage*float64(m.historyGames) + float64(total)) / float64(m.historyGames+1)
	m.historyGames++
	m.historyHigh = max(m.historyHigh, total)
}

func (m *Model) newGame() {
	session, err := scoring.NewSession(m.rules)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.session = session
	m.savedID = ""
	m.status = ""
	m.finished = false
	m.saveFailed = false
	m.logger.Info("game started", zap.Int("balls_per_frame", m.rules.BallsPerFrame))
}

// syncKeys mirrors which actions are currently available.
func (m *Model) syncKeys() {
	complete := m.session.Complete()
	m.keys.Pins.SetEnabled(!complete)
	m.keys.Confirm.SetEnabled(m.session.CanConfirm())
	m.keys.Strike.SetEnabled(m.session.CanStrike())
	m.keys.Gutter.SetEnabled(!complete)
	m.keys.NewGame.SetEnabled(complete)
	if m.session.Pending().IsEmpty() {
		m.keys.Reset.SetHelp("⌫/u", "undo")
		// A saved game is final.
		m.keys.Reset.SetEnabled(m.session.CanUndo() && m.savedID == "")
	} else {
		m.keys.Reset.SetHelp("⌫/u", "reset selection")
		m.keys.Reset.SetEnabled(true)
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	games, err := m.store.ListGames(context.Background(), model.HistoryConfig{Type: string(m.rules.GameType)})
	if err != nil {
		m.logger.Warn("failed to load history stats", zap.Error(err))
		return
	}
	summary := statsPkg.Summarize(games)
	m.historyGames = summary.Games
	m.historyAverage = summary.Average
	m.historyHigh = summary.HighGame
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		m.renderCards(),
		m.renderScorecard(),
		m.renderRack(),
	}
	if m.status != "" {
		style := statusStyle
		if m.saveFailed {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}
