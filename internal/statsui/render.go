package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pinscore/internal/model"
	"github.com/verte-zerg/pinscore/internal/stats"
)

// weakFrameCount is how many low-scoring frame positions the overview lists.
const weakFrameCount = 3

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	gameType := m.cfg.Type
	if gameType == "" {
		gameType = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: type=%s  since=%s  last=%s  window=%d", gameType, since, last, m.cfg.CurveWindow)
	if m.cfg.Search != "" {
		summary += fmt.Sprintf("  search=%q", m.cfg.Search)
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabGames {
		help = "Nav: left/right  Move: up/down  Scorecard: enter  Window: -/=  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabGames {
		if len(m.report.Games) == 0 {
			return fitLines("No games found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.gamesTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Games) == 0 {
		return "No games found."
	}
	sections := []string{
		renderSummaryCards(report, width),
		renderCurves(report.Games, window, width),
	}
	if weak := renderWeakFrames(report); weak != "" {
		sections = append(sections, weak)
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	s := report.Summary
	cards := []string{
		metricCard("Games", strconv.Itoa(s.Games)),
		metricCard("Average", fmt.Sprintf("%.1f", s.Average)),
		metricCard("High Game", strconv.Itoa(s.HighGame)),
		metricCard("High Series", strconv.Itoa(s.HighSeries)),
		metricCard("Strike %", fmt.Sprintf("%.0f%%", s.StrikePct)),
		metricCard("Spare %", fmt.Sprintf("%.0f%%", s.SparePct)),
		metricCard("Achievements", fmt.Sprintf("%d/%d", stats.EarnedCount(report.Achievements), len(report.Achievements))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(games []model.GameRecord, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, games, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderWeakFrames(report stats.Report) string {
	weak := stats.WeakestFrames(report.FrameAverages, weakFrameCount)
	if len(weak) == 0 {
		return ""
	}
	parts := make([]string, len(weak))
	for i, frame := range weak {
		parts[i] = fmt.Sprintf("F%d %.1f", frame, report.FrameAverages[frame-1])
	}
	label := fmt.Sprintf("Weakest frames (last %d games): ", len(report.WindowGames))
	return cardTitleStyle.Render(label) + cardValueStyle.Render(strings.Join(parts, "  "))
}

func renderAchievements(report stats.Report) string {
	if len(report.Achievements) == 0 {
		return "No achievements."
	}
	lines := []string{
		cardTitleStyle.Render(fmt.Sprintf("Earned %d of %d", stats.EarnedCount(report.Achievements), len(report.Achievements))),
		"",
	}
	for _, a := range report.Achievements {
		if a.Earned {
			when := a.EarnedAt.Local().Format("2006-01-02")
			lines = append(lines, earnedStyle.Render("★ "+a.Title)+"  "+a.Desc+headerStyle.Render("  "+when))
			continue
		}
		lines = append(lines, lockedStyle.Render("☆ "+a.Title+"  "+a.Desc))
	}
	if top := stats.TopGames(report.Games, 5); len(top) > 0 {
		lines = append(lines, "", cardTitleStyle.Render("Top games"))
		for i, g := range top {
			lines = append(lines, fmt.Sprintf("%d. %3d  %s  %s", i+1, g.Score, g.PlayedAt.Local().Format("2006-01-02"), g.Type))
		}
	}
	return strings.Join(lines, "\n")
}

// gameColumns sizes the games table. Location takes the width left over.
func gameColumns(width int) []table.Column {
	headers, _ := stats.GameTableRows(nil)
	widths := []int{16, 6, 10, 0, 5, 7, 6, 4}
	fixed := 0
	for _, w := range widths {
		fixed += w + 1
	}
	widths[3] = max(8, width-fixed-1)
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}

func gameRows(games []model.GameRecord) []table.Row {
	_, rows := stats.GameTableRows(games)
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		out[i] = table.Row(row)
	}
	return out
}

func gamesTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) renderDetailModal() string {
	g := m.detail
	title := cardValueStyle.Render(fmt.Sprintf("%s  %s  %d", g.PlayedAt.Local().Format("2006-01-02 15:04"), g.Type, g.Score))
	body := []string{title}
	meta := g.Category
	if g.Location != "" {
		meta += " · " + g.Location
	}
	body = append(body, headerStyle.Render(meta), "")
	body = append(body, renderGameFrames(g, modalInnerWidth(m.width))...)
	body = append(body, "", headerStyle.Render("Enter/Esc to close"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderGameFrames(g model.GameRecord, width int) []string {
	summary := fmt.Sprintf("Strikes %d  Spares %d  Open %d", g.Strikes, g.Spares, g.OpenFrames)
	if len(g.Frames) == 0 {
		return []string{summary, headerStyle.Render("No frames stored for this game.")}
	}
	frames, err := stats.FramesFromRecord(g)
	if err != nil {
		return []string{summary, errorStyle.Render(err.Error())}
	}
	var buf bytes.Buffer
	if err := stats.RenderFrameTable(&buf, frames); err != nil {
		return []string{summary, errorStyle.Render(err.Error())}
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = truncateLine(line, width)
	}
	metrics := stats.GameMetrics(frames)
	if name := stats.StrikeStreakName(metrics.MaxStrikeStreak); name != "" {
		summary += "  Best strike run: " + name
	}
	if name := stats.SpareStreakName(metrics.MaxSpareStreak); name != "" {
		summary += "  Best spare run: " + name
	}
	return append(lines, "", summary)
}

func modalWidth(width int) int {
	return max(40, min(width-4, 90))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
