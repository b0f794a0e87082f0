package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/targetflow/internal/model"
)

var tagChartColors = []lipgloss.Color{
	colorPrimary, colorSecondary, colorAccent, colorWarning,
	colorSuccess, colorHighlight, colorError,
}

// analyticsModel summarizes the active targets: headline counts, a tag
// frequency chart, and a per-target velocity table. Everything is derived
// from the collection on render; there is no cached state beyond the chart.
type analyticsModel struct {
	ctx    *appContext
	width  int
	height int
}

func newAnalyticsModel(ctx *appContext) analyticsModel {
	return analyticsModel{ctx: ctx}
}

func (m *analyticsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m analyticsModel) view() string {
	w := m.width - 4
	active := model.Visible(m.ctx.col.Targets(), false, "")

	header := titleStyle.Render("Analytics")
	cards := m.renderSummaryCards(active)
	chart := m.renderTagChart(active)
	table := m.renderVelocityTable(active, w)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", cards, "", chart, "", table),
	)
}

func (m analyticsModel) renderSummaryCards(active []model.Target) string {
	mostActive := model.MostActiveTag(active)
	if mostActive == "" {
		mostActive = "—"
	}

	totalLogs := 0
	for _, t := range active {
		totalLogs += len(t.Logs)
	}

	cards := []string{
		fmt.Sprintf("%s %s", mutedStyle.Render("Active goals:"), highlightStyle.Render(fmt.Sprintf("%d", len(active)))),
		fmt.Sprintf("%s %s", mutedStyle.Render("Progress logs:"), highlightStyle.Render(fmt.Sprintf("%d", totalLogs))),
		fmt.Sprintf("%s %s", mutedStyle.Render("Most active tag:"), tagStyle.Render(mostActive)),
	}
	return "  " + strings.Join(cards, "    ")
}

func (m analyticsModel) renderTagChart(active []model.Target) string {
	summary := model.TagSummary(active)
	if len(summary) == 0 {
		return mutedStyle.Render("  No tags yet")
	}

	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	chart := barchart.New(chartWidth, chartHeight)

	limit := min(len(summary), 8)
	var bars []barchart.BarData
	for i := 0; i < limit; i++ {
		tc := summary[i]
		style := lipgloss.NewStyle().Foreground(tagChartColors[i%len(tagChartColors)])
		bars = append(bars, barchart.BarData{
			Label: truncate(tc.Tag, 8),
			Values: []barchart.BarValue{
				{Name: tc.Tag, Value: float64(tc.Count), Style: style},
			},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func (m analyticsModel) renderVelocityTable(active []model.Target, w int) string {
	if len(active) == 0 {
		return mutedStyle.Render("  No active targets")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-28s %10s %8s %9s", "Target", "Done", "Logs", "Success"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 58))))

	for _, t := range active {
		total := model.TotalProgress(t.Logs)
		rate := model.SuccessRate(t.Logs)
		rows = append(rows, fmt.Sprintf("  %-28s %10d %8d %8d%%",
			truncate(t.Title, 28), total, len(t.Logs), rate,
		))
	}

	return strings.Join(rows, "\n")
}
