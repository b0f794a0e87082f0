package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/targetflow/internal/model"
)

// plannerModel renders a month grid of due dates for the active targets.
type plannerModel struct {
	ctx    *appContext
	width  int
	height int

	offset int // months from the current one (0 = current)
}

func newPlannerModel(ctx *appContext) plannerModel {
	return plannerModel{ctx: ctx}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p plannerModel) month() time.Time {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, p.offset, 0)
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			p.offset--
		case key.Matches(msg, keys.Right):
			p.offset++
		case key.Matches(msg, keys.Back):
			p.offset = 0
		}
	}
	return p, nil
}

// dueByDay maps day-of-month to the active targets due that day.
func (p plannerModel) dueByDay() map[int][]model.Target {
	month := p.month()
	prefix := month.Format("2006-01-")
	byDay := make(map[int][]model.Target)
	for _, t := range model.Visible(p.ctx.col.Targets(), false, "") {
		if !strings.HasPrefix(t.DueDate, prefix) {
			continue
		}
		due, err := time.Parse("2006-01-02", t.DueDate)
		if err != nil {
			continue
		}
		byDay[due.Day()] = append(byDay[due.Day()], t)
	}
	return byDay
}

func (p plannerModel) view() string {
	w := p.width - 4
	month := p.month()
	byDay := p.dueByDay()

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Planner"), "  ",
		highlightStyle.Render(month.Format("January 2006")),
	)

	grid := p.renderMonthGrid(month, byDay)
	list := p.renderDueList(month, byDay)
	nav := mutedStyle.Render("  ←/→: change month  esc: current month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", grid, "", list, "", nav),
	)
}

func (p plannerModel) renderMonthGrid(month time.Time, byDay map[int][]model.Target) string {
	firstOfMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	now := time.Now()
	todayDay := 0
	if now.Year() == month.Year() && now.Month() == month.Month() {
		todayDay = now.Day()
	}

	var lines []string
	lines = append(lines, mutedStyle.Render("  Su  Mo  Tu  We  Th  Fr  Sa"))

	weekdayOffset := int(firstOfMonth.Weekday()) // Sunday == 0
	rows := ((weekdayOffset + daysInMonth) + 6) / 7
	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			day := row*7 + col - weekdayOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, "    ")
				continue
			}
			cells = append(cells, p.renderDayCell(day, todayDay, byDay))
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, ""), " "))
	}

	return strings.Join(lines, "\n")
}

func (p plannerModel) renderDayCell(day, todayDay int, byDay map[int][]model.Target) string {
	cell := fmt.Sprintf("%3d ", day)
	due := byDay[day]

	switch {
	case day == todayDay:
		return selectedItemStyle.Render(cell)
	case len(due) > 0:
		overdue := false
		for _, t := range due {
			if model.DaysLeft(t.DueDate, time.Now()) < 0 {
				overdue = true
			}
		}
		if overdue {
			return errorStyle.Render(cell)
		}
		return warningStyle.Render(cell)
	default:
		return normalItemStyle.Render(cell)
	}
}

func (p plannerModel) renderDueList(month time.Time, byDay map[int][]model.Target) string {
	if len(byDay) == 0 {
		return mutedStyle.Render("  No deadlines this month")
	}

	daysInMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()).
		AddDate(0, 1, -1).Day()

	var rows []string
	rows = append(rows, mutedStyle.Render("  Deadlines"))
	for day := 1; day <= daysInMonth; day++ {
		for _, t := range byDay[day] {
			status := model.DeadlineStatus(model.DaysLeft(t.DueDate, time.Now()), t.Archived)
			badge := statusStyle(status.Kind).Render(status.Label)
			rows = append(rows, fmt.Sprintf("  %s %-28s %s",
				highlightStyle.Render(fmt.Sprintf("%2d", day)), truncate(t.Title, 28), badge))
		}
	}
	return strings.Join(rows, "\n")
}
