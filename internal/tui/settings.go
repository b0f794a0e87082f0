package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/targetflow/internal/backup"
	"github.com/sadopc/targetflow/internal/session"
)

type settingsModel struct {
	ctx    *appContext
	width  int
	height int

	settings   []session.Setting
	formActive bool
	form       *huh.Form

	importActive bool
	importForm   *huh.Form

	// Form values as pointers (survive value copies)
	theme         *string
	focusWork     *string
	focusBreak    *string
	focusCount    *string
	importPath    *string
	importConfirm *bool
}

func newSettingsModel(ctx *appContext) settingsModel {
	theme, fw, fb, fc, path := "", "", "", "", ""
	confirm := false
	return settingsModel{
		ctx:           ctx,
		theme:         &theme,
		focusWork:     &fw,
		focusBreak:    &fb,
		focusCount:    &fc,
		importPath:    &path,
		importConfirm: &confirm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) inputActive() bool {
	return s.formActive || s.importActive
}

type settingsDataMsg struct {
	settings []session.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.ctx.sess.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}
	if s.importActive && s.importForm != nil {
		return s.updateImportForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		case key.Matches(msg, keys.Import):
			return s.showImportForm()
		}
	}
	return s, nil
}

// --- Settings form ---

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.theme = s.getVal("theme", "dark")
	*s.focusWork = secsToMin(s.getVal("focus_work", "1500"))
	*s.focusBreak = secsToMin(s.getVal("focus_break", "300"))
	*s.focusCount = s.getVal("focus_count", "4")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).Value(s.theme),
		).Title("Appearance"),
		huh.NewGroup(
			huh.NewInput().Title("Focus work (min)").Value(s.focusWork),
			huh.NewInput().Title("Focus break (min)").Value(s.focusBreak),
			huh.NewInput().Title("Work phases per session").Value(s.focusCount),
		).Title("Focus"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.ctx.sess.SetSetting("theme", *s.theme)
	s.ctx.sess.SetSetting("focus_work", minToSecs(*s.focusWork))
	s.ctx.sess.SetSetting("focus_break", minToSecs(*s.focusBreak))
	s.ctx.sess.SetSetting("focus_count", *s.focusCount)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.ctx.sess.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

// --- Import form ---

func (s settingsModel) showImportForm() (settingsModel, tea.Cmd) {
	*s.importPath = ""
	*s.importConfirm = false

	s.importForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backup file (.json)").Value(s.importPath),
			huh.NewConfirm().
				Title("Replace all targets with the file contents?").
				Affirmative("Replace").Negative("Cancel").
				Value(s.importConfirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.importActive = true
	return s, s.importForm.Init()
}

func (s settingsModel) updateImportForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.importActive = false
			s.importForm = nil
			return s, nil
		}
	}

	form, cmd := s.importForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.importForm = f
	}

	if s.importForm.State == huh.StateCompleted {
		s.importActive = false
		if !*s.importConfirm || *s.importPath == "" {
			return s, nil
		}
		return s, s.doImport(*s.importPath)
	}

	return s, cmd
}

func (s settingsModel) doImport(path string) tea.Cmd {
	return func() tea.Msg {
		targets, err := backup.Import(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{targets: targets}
	}
}

// --- Rendering ---

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}
	if s.importActive && s.importForm != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Import Backup"), "", s.importForm.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("enter: edit  e: export  i: import"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "focus_work", "focus_break":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
