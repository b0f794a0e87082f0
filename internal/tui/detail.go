package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/targetflow/internal/model"
)

// detailModel shows one target: deadline stats, the log history, and the
// add/edit log form. It is keyed to the target's unified identifier and
// closes itself when that target disappears from the collection.
type detailModel struct {
	ctx    *appContext
	key    string
	width  int
	height int

	cursor        int
	confirmDelete bool // deleting the selected log
	confirmTarget bool // deleting the whole target

	formActive bool
	form       *huh.Form
	editingLog string // log key being edited, "" for a new log

	// Form field pointers (survive value copies)
	formDate      *string
	formPlanned   *string
	formCompleted *string
	formNote      *string
}

func newDetailModel(ctx *appContext, targetKey string) detailModel {
	date, planned, completed, note := "", "", "", ""
	return detailModel{
		ctx:           ctx,
		key:           targetKey,
		formDate:      &date,
		formPlanned:   &planned,
		formCompleted: &completed,
		formNote:      &note,
	}
}

func (m *detailModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m detailModel) inputActive() bool {
	return m.formActive || m.confirmDelete || m.confirmTarget
}

// target resolves the live record; ok is false once it has been deleted.
func (m detailModel) target() (model.Target, bool) {
	return m.ctx.col.Get(m.key)
}

// sortedLogs returns the log history newest first.
func (m detailModel) sortedLogs() []model.Log {
	t, ok := m.target()
	if !ok {
		return nil
	}
	logs := append([]model.Log(nil), t.Logs...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date > logs[j].Date
	})
	return logs
}

// update returns closed=true when the view should be dismissed, either by
// the user backing out or because the target was deleted.
func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd, bool) {
	if _, ok := m.target(); !ok {
		return m, nil, true
	}

	if m.formActive && m.form != nil {
		next, cmd := m.updateForm(msg)
		return next, cmd, false
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmTarget {
			return m.updateConfirmTarget(msg)
		}
		if m.confirmDelete {
			next, cmd := m.updateConfirmLog(msg)
			return next, cmd, false
		}
		return m.updateList(msg)
	}
	return m, nil, false
}

func (m detailModel) updateList(msg tea.KeyMsg) (detailModel, tea.Cmd, bool) {
	logs := m.sortedLogs()

	switch {
	case key.Matches(msg, keys.Back):
		return m, nil, true
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(logs)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		next, cmd := m.showLogForm(nil)
		return next, cmd, false
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(logs) {
			log := logs[m.cursor]
			next, cmd := m.showLogForm(&log)
			return next, cmd, false
		}
	case key.Matches(msg, keys.Delete):
		if len(logs) > 0 {
			m.confirmDelete = true
		}
	case key.Matches(msg, keys.Archive):
		m.confirmTarget = true
	}
	return m, nil, false
}

func (m detailModel) updateConfirmLog(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.confirmDelete = false
		logs := m.sortedLogs()
		if m.cursor < len(logs) {
			return m, m.deleteLog(logs[m.cursor])
		}
	case "n", "N", "esc":
		m.confirmDelete = false
	}
	return m, nil
}

func (m detailModel) updateConfirmTarget(msg tea.KeyMsg) (detailModel, tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.confirmTarget = false
		// Deleting the open target closes this view.
		return m, m.deleteTarget(), true
	case "n", "N", "esc":
		m.confirmTarget = false
	}
	return m, nil, false
}

// --- Mutations ---

func (m detailModel) addLog() tea.Cmd {
	ctx := m.ctx
	targetKey := m.key
	log := model.Log{
		LocalID:   uuid.NewString(),
		Date:      *m.formDate,
		Planned:   *m.formPlanned,
		Completed: *m.formCompleted,
		Note:      *m.formNote,
	}
	return ctx.mutate(
		func() {
			if t, ok := ctx.col.Get(targetKey); ok {
				t = t.Clone()
				t.Logs = append(t.Logs, log)
				ctx.col.Replace(t)
			}
		},
		func(c context.Context) (*model.Target, error) {
			echo, err := ctx.api.AddLog(c, targetKey, log)
			if err != nil {
				return nil, err
			}
			return &echo, nil
		},
		"Log added",
	)
}

func (m detailModel) editLog(logKey string) tea.Cmd {
	ctx := m.ctx
	targetKey := m.key
	log := model.Log{
		Date:      *m.formDate,
		Planned:   *m.formPlanned,
		Completed: *m.formCompleted,
		Note:      *m.formNote,
	}
	return ctx.mutate(
		func() {
			if t, ok := ctx.col.Get(targetKey); ok {
				t = t.Clone()
				for i := range t.Logs {
					if t.Logs[i].Key() == logKey {
						log.PersistedID = t.Logs[i].PersistedID
						log.LocalID = t.Logs[i].LocalID
						t.Logs[i] = log
						break
					}
				}
				ctx.col.Replace(t)
			}
		},
		func(c context.Context) (*model.Target, error) {
			echo, err := ctx.api.UpdateLog(c, targetKey, logKey, log)
			if err != nil {
				return nil, err
			}
			return &echo, nil
		},
		"Log updated",
	)
}

func (m detailModel) deleteLog(log model.Log) tea.Cmd {
	ctx := m.ctx
	targetKey := m.key
	logKey := log.Key()
	return ctx.mutate(
		func() {
			if t, ok := ctx.col.Get(targetKey); ok {
				t = t.Clone()
				for i := range t.Logs {
					if t.Logs[i].Key() == logKey {
						t.Logs = append(t.Logs[:i], t.Logs[i+1:]...)
						break
					}
				}
				ctx.col.Replace(t)
			}
		},
		func(c context.Context) (*model.Target, error) {
			echo, err := ctx.api.DeleteLog(c, targetKey, logKey)
			if err != nil {
				return nil, err
			}
			return &echo, nil
		},
		"Log deleted",
	)
}

func (m detailModel) deleteTarget() tea.Cmd {
	ctx := m.ctx
	targetKey := m.key
	return ctx.mutate(
		func() { ctx.col.Remove(targetKey) },
		func(c context.Context) (*model.Target, error) {
			return nil, ctx.api.DeleteTarget(c, targetKey)
		},
		"Target deleted",
	)
}

// --- Log form ---

func (m detailModel) showLogForm(editing *model.Log) (detailModel, tea.Cmd) {
	if editing != nil {
		*m.formDate = editing.Date
		*m.formPlanned = editing.Planned
		*m.formCompleted = editing.Completed
		*m.formNote = editing.Note
		m.editingLog = editing.Key()
	} else {
		*m.formDate = today()
		*m.formPlanned = ""
		*m.formCompleted = ""
		*m.formNote = ""
		m.editingLog = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(m.formDate),
			huh.NewInput().Title("Planned").Value(m.formPlanned),
			huh.NewInput().Title("Completed (units)").Value(m.formCompleted),
			huh.NewInput().Title("Note").Value(m.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m detailModel) updateForm(msg tea.Msg) (detailModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formDate == "" {
			return m, nil
		}
		if m.editingLog != "" {
			return m, m.editLog(m.editingLog)
		}
		return m, m.addLog()
	}

	return m, cmd
}

// --- Rendering ---

func (m detailModel) view() string {
	w := m.width - 4

	t, ok := m.target()
	if !ok {
		return panelStyle.Width(w).Render(mutedStyle.Render("Target no longer exists."))
	}

	if m.formActive && m.form != nil {
		heading := "New Log"
		if m.editingLog != "" {
			heading = "Edit Log"
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(heading), "", m.form.View()),
		)
	}

	var rows []string
	rows = append(rows, m.renderHeader(t))
	rows = append(rows, "")

	logs := m.sortedLogs()
	if len(logs) == 0 {
		rows = append(rows, mutedStyle.Render("No logs yet. Press n to record progress."))
	} else {
		header := mutedStyle.Render(fmt.Sprintf("  %-12s %-24s %10s  %s", "Date", "Planned", "Completed", "Note"))
		rows = append(rows, header)
		for i, log := range logs {
			rows = append(rows, m.renderLogRow(log, i == m.cursor))
		}
	}

	rows = append(rows, "")
	switch {
	case m.confirmTarget:
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Delete %q and all its logs? (y/n)", t.Title)))
	case m.confirmDelete && m.cursor < len(logs):
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Delete the log from %s? (y/n)", logs[m.cursor].Date)))
	default:
		rows = append(rows, mutedStyle.Render("  n: add log  enter: edit  d: delete log  a: delete target  esc: back"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m detailModel) renderHeader(t model.Target) string {
	status := model.DeadlineStatus(model.DaysLeft(t.DueDate, time.Now()), t.Archived)
	badge := statusStyle(status.Kind).Render("[" + status.Label + "]")

	pin := ""
	if t.Pinned {
		pin = pinnedStyle.Render(" ⚑")
	}

	title := titleStyle.Render(t.Title) + pin + "  " + badge

	total := model.TotalProgress(t.Logs)
	rate := model.SuccessRate(t.Logs)
	achieved, missed := model.SuccessStats(t.Logs)
	stats := mutedStyle.Render(fmt.Sprintf("%d done · %d%% success (%d achieved / %d missed)", total, rate, achieved, missed))

	lines := []string{title, stats}
	if t.Description != "" {
		lines = append(lines, subtitleStyle.Render(t.Description))
	}
	if len(t.Tags) > 0 {
		lines = append(lines, tagStyle.Render("#"+strings.Join(t.Tags, " #")))
	}
	return strings.Join(lines, "\n")
}

func (m detailModel) renderLogRow(log model.Log, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	completed := log.Completed
	if n, ok := log.Units(); ok && n >= 100 {
		completed = successStyle.Render(completed)
	}

	return style.Render(fmt.Sprintf("%s%-12s %-24s ", cursor, log.Date, truncate(log.Planned, 24))) +
		fmt.Sprintf("%10s  %s", completed, mutedStyle.Render(truncate(log.Note, 24)))
}
