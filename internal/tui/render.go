package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pinscore/internal/scoring"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	liveValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	currentFrameStyle = frameStyle.
				BorderForeground(lipgloss.Color("#C89A3A"))
	frameLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	markStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	ballStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)

	pinStandingStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#B0B0B0"))
	pinSelectedStyle = pinStandingStyle.
				BorderForeground(lipgloss.Color("#FF4D4F")).
				Foreground(lipgloss.Color("#FF4D4F")).
				Bold(true)
	pinDownStyle = pinStandingStyle.
			BorderForeground(lipgloss.Color("#3A3A3A")).
			Foreground(lipgloss.Color("#4A4A4A"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// frameCellWidth fits three ball symbols of up to two columns each.
const frameCellWidth = 8

// frameCell is the display content of one scorecard frame.
type frameCell struct {
	balls   [scoring.MaxBalls]string
	pending int
	total   string
	current bool
}

// frameCells builds the scorecard display. The active ball slot shows the
// live pending symbol, and the running total of the current frame includes
// the pending ball. Frames past the current one, or with nothing thrown,
// show "-".
func frameCells(s *scoring.Session) []frameCell {
	frames := s.Frames()
	current := s.CurrentFrameIndex()
	pendingBall := s.PendingBall()
	complete := s.Complete()
	live := !complete && !pendingBall.IsEmpty()

	cells := make([]frameCell, len(frames))
	running := 0
	for i, f := range frames {
		cell := frameCell{pending: -1, current: i == current && !complete}
		for j, b := range f.Balls {
			cell.balls[j] = b.String()
		}
		running += f.Score()
		shown := running
		if live && i == current {
			cell.balls[s.CurrentBallIndex()] = s.PendingDisplay()
			cell.pending = s.CurrentBallIndex()
			shown += pendingBall.Value()
		}
		if i <= current && (f.Started() || (live && i == current)) {
			cell.total = strconv.Itoa(shown)
		} else {
			cell.total = "-"
		}
		cells[i] = cell
	}
	return cells
}

func (m *Model) renderCards() string {
	frame := m.session.CurrentFrameIndex()
	position := fmt.Sprintf("%d / %d", m.session.CurrentBallIndex()+1, scoring.MaxBalls)
	if m.session.Complete() {
		position = "done"
	}
	previous := "-"
	if frame > 0 {
		previous = strconv.Itoa(m.session.Frames()[frame-1].Balls[0].Value())
	}
	cards := []string{
		renderCard(fmt.Sprintf("Frame %d", frame+1), cardValueStyle.Render(position)),
		renderCard("Previous frame", cardValueStyle.Render(previous)),
		renderCard("Current ball", liveValueStyle.Render(strconv.Itoa(m.session.CurrentBallPendingTotal()))),
		renderCard("Total", cardValueStyle.Render(strconv.Itoa(m.session.GameTotal()))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + value)
}

func (m *Model) renderScorecard() string {
	cells := frameCells(m.session)
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		symbols := make([]string, len(cell.balls))
		for j, sym := range cell.balls {
			symbols[j] = styleBall(sym, j == cell.pending)
		}
		body := strings.Join([]string{
			frameLabelStyle.Render(centerCell(fmt.Sprintf("F%d", i+1), frameCellWidth)),
			centerStyled(strings.Join(symbols, " "), ballsWidth(cell.balls), frameCellWidth),
			ballStyle.Render(centerCell(cell.total, frameCellWidth)),
		}, "\n")
		style := frameStyle
		if cell.current {
			style = currentFrameStyle
		}
		rendered[i] = style.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func styleBall(sym string, pending bool) string {
	if sym == "" {
		sym = " "
	}
	switch {
	case pending:
		return pendingStyle.Render(sym)
	case sym == "X" || sym == "/" || sym == "A" || sym == "H":
		return markStyle.Render(sym)
	default:
		return ballStyle.Render(sym)
	}
}

func ballsWidth(balls [scoring.MaxBalls]string) int {
	total := len(balls) - 1
	for _, sym := range balls {
		total += max(runewidth.StringWidth(sym), 1)
	}
	return total
}

// centerCell pads value to width columns, centered.
func centerCell(value string, width int) string {
	return centerStyled(value, runewidth.StringWidth(value), width)
}

func centerStyled(value string, valueWidth, width int) string {
	if valueWidth >= width {
		return value
	}
	left := (width - valueWidth) / 2
	right := width - valueWidth - left
	return strings.Repeat(" ", left) + value + strings.Repeat(" ", right)
}

func (m *Model) renderRack() string {
	knockdown := m.session.Knockdown()
	pending := m.session.Pending()
	pins := make([]string, scoring.PinCount)
	for i := range pins {
		p := scoring.Pin(i)
		label := fmt.Sprintf("%d\n%s", i+1, p)
		switch {
		case knockdown.Has(p):
			pins[i] = pinDownStyle.Render(fmt.Sprintf("%d\n··", i+1))
		case pending.Has(p):
			pins[i] = pinSelectedStyle.Render(label)
		default:
			pins[i] = pinStandingStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pins...)
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("%s · %d balls/frame", m.rules.GameType, m.rules.BallsPerFrame)}
	if m.config.Location != "" {
		segments = append(segments, m.config.Location)
	}
	if m.historyGames > 0 {
		segments = append(segments, fmt.Sprintf("History %d games · avg %.1f · high %d", m.historyGames, m.historyAverage, m.historyHigh))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
