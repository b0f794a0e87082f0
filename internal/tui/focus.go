package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/targetflow/internal/model"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusWork
	focusBreak
	focusCompleted
)

var focusPhaseNames = map[focusPhase]string{
	focusIdle:      "IDLE",
	focusWork:      "WORK",
	focusBreak:     "BREAK",
	focusCompleted: "COMPLETED",
}

// focusModel runs timed work sessions against a chosen target. Each
// completed work phase records a progress log on that target through the
// same optimistic mutation path as any other edit.
type focusModel struct {
	ctx    *appContext
	width  int
	height int

	phase          focusPhase
	completedCount int
	targetCount    int

	// Countdown state
	remaining time.Duration
	phaseEnd  time.Time

	// Durations from settings
	workDuration  time.Duration
	breakDuration time.Duration

	// Target the session logs against
	pickerActive bool
	pickerCursor int
	targetKey    string
	targetTitle  string
}

func newFocusModel(ctx *appContext) focusModel {
	m := focusModel{
		ctx:         ctx,
		phase:       focusIdle,
		targetCount: 4,
	}
	m.loadSettings()
	return m
}

func (f *focusModel) loadSettings() {
	f.workDuration = f.settingDuration("focus_work", 25*time.Minute)
	f.breakDuration = f.settingDuration("focus_break", 5*time.Minute)

	if v, err := f.ctx.sess.GetSetting("focus_count"); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.targetCount = n
		}
	}
}

func (f *focusModel) settingDuration(key string, fallback time.Duration) time.Duration {
	if v, err := f.ctx.sess.GetSetting(key); err == nil {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f focusModel) inputActive() bool {
	return f.pickerActive
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if f.phase == focusWork || f.phase == focusBreak {
			f.remaining = time.Until(f.phaseEnd)
			if f.remaining <= 0 {
				return f.advancePhase()
			}
		}
		return f, nil

	case tea.KeyMsg:
		if f.pickerActive {
			return f.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Start):
			if f.phase == focusIdle || f.phase == focusCompleted {
				return f.openPicker()
			}
		case key.Matches(msg, keys.Stop):
			if f.phase != focusIdle {
				return f.cancelSession()
			}
		case key.Matches(msg, keys.Skip):
			if f.phase == focusBreak {
				return f.startWorkPhase()
			}
		}
	}
	return f, nil
}

// --- Target picker ---

func (f focusModel) pickable() []model.Target {
	return model.Visible(f.ctx.col.Targets(), false, "")
}

func (f focusModel) openPicker() (focusModel, tea.Cmd) {
	if len(f.pickable()) == 0 {
		return f, func() tea.Msg {
			return statusMsg{text: "No active targets to focus on", isError: true}
		}
	}
	f.pickerActive = true
	f.pickerCursor = 0
	return f, nil
}

func (f focusModel) updatePicker(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	targets := f.pickable()
	switch {
	case key.Matches(msg, keys.Back):
		f.pickerActive = false
	case key.Matches(msg, keys.Up):
		if f.pickerCursor > 0 {
			f.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickerCursor < len(targets)-1 {
			f.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		if f.pickerCursor < len(targets) {
			f.pickerActive = false
			f.targetKey = targets[f.pickerCursor].Key()
			f.targetTitle = targets[f.pickerCursor].Title
			return f.startSession()
		}
	}
	return f, nil
}

// --- Phase machine ---

func (f focusModel) startSession() (focusModel, tea.Cmd) {
	f.completedCount = 0
	f.loadSettings()
	return f.startWorkPhase()
}

func (f focusModel) startWorkPhase() (focusModel, tea.Cmd) {
	f.phase = focusWork
	f.remaining = f.workDuration
	f.phaseEnd = time.Now().Add(f.workDuration)
	return f, nil
}

func (f focusModel) advancePhase() (focusModel, tea.Cmd) {
	switch f.phase {
	case focusWork:
		f.completedCount++
		logCmd := f.logWorkPhase()

		if f.completedCount >= f.targetCount {
			f.phase = focusCompleted
			return f, tea.Batch(logCmd, func() tea.Msg {
				return statusMsg{text: "Focus session complete! \a"}
			})
		}

		f.phase = focusBreak
		f.remaining = f.breakDuration
		f.phaseEnd = time.Now().Add(f.breakDuration)
		return f, tea.Batch(logCmd, func() tea.Msg {
			return statusMsg{text: "Break time! \a"}
		})

	case focusBreak:
		return f.startWorkPhase()
	}
	return f, nil
}

// logWorkPhase records the finished work phase as a progress log on the
// chosen target, in minutes worked.
func (f focusModel) logWorkPhase() tea.Cmd {
	ctx := f.ctx
	targetKey := f.targetKey
	if targetKey == "" {
		return nil
	}
	minutes := int(f.workDuration.Minutes())
	log := model.Log{
		LocalID:   uuid.NewString(),
		Date:      today(),
		Planned:   fmt.Sprintf("%d min focus", minutes),
		Completed: strconv.Itoa(minutes),
		Note:      "Focus session",
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
		"Focus logged",
	)
}

func (f focusModel) cancelSession() (focusModel, tea.Cmd) {
	f.phase = focusIdle
	f.remaining = 0
	f.targetKey = ""
	f.targetTitle = ""
	return f, func() tea.Msg {
		return statusMsg{text: "Focus session cancelled"}
	}
}

// --- Rendering ---

func (f focusModel) view() string {
	w := f.width - 4

	if f.pickerActive {
		return f.renderPicker(w)
	}

	title := titleStyle.Render("Focus")

	var timeDisplay string
	var phaseLabel string
	var indicator string

	switch f.phase {
	case focusIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatFocusTime(f.workDuration))
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to pick a target and begin")
	case focusWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatFocusTime(f.remaining))
		phaseLabel = accentStyle.Bold(true).Render("WORK")
		indicator = f.renderProgress()
	case focusBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatFocusTime(f.remaining))
		phaseLabel = successStyle.Bold(true).Render("BREAK")
		indicator = f.renderProgress()
	case focusCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = f.renderProgress()
	}

	var target string
	if f.targetTitle != "" && f.phase != focusIdle {
		target = mutedStyle.Render("Logging to ") + highlightStyle.Render(f.targetTitle)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		target,
		"",
		indicator,
	)

	var controls string
	switch f.phase {
	case focusIdle, focusCompleted:
		controls = mutedStyle.Render("s: start")
	case focusWork:
		controls = mutedStyle.Render("x: cancel")
	case focusBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (f focusModel) renderPicker(w int) string {
	targets := f.pickable()

	var rows []string
	rows = append(rows, titleStyle.Render("Focus on which target?"))
	rows = append(rows, "")
	for i, t := range targets {
		cursor := "  "
		style := normalItemStyle
		if i == f.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+truncate(t.Title, 40)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (f focusModel) renderProgress() string {
	var parts []string
	for i := 0; i < f.targetCount; i++ {
		if i < f.completedCount {
			parts = append(parts, successStyle.Render("●"))
		} else if i == f.completedCount && f.phase == focusWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", f.completedCount, f.targetCount))
	return progress + counter
}

func formatFocusTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
