package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/targetflow/internal/api"
	"github.com/sadopc/targetflow/internal/backup"
	"github.com/sadopc/targetflow/internal/model"
	"github.com/sadopc/targetflow/internal/session"
	"github.com/sadopc/targetflow/internal/state"
)

// App is the root Bubble Tea model. It owns the shared context, routes
// messages to the active view, and is the single place where optimistic
// mutations are committed or rolled back.
type App struct {
	ctx    *appContext
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	auth      authModel
	dashboard dashboardModel
	archive   dashboardModel
	planner   plannerModel
	analytics analyticsModel
	focus     focusModel
	profile   profileModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
	fetchErr  string
}

func NewApp(client *api.Client, sess *session.Store) App {
	h := help.New()
	h.ShowAll = false

	ctx := &appContext{
		api:  client,
		sess: sess,
		col:  state.NewCollection(),
	}

	return App{
		ctx:        ctx,
		activeView: viewDashboard,
		auth:       newAuthModel(ctx),
		dashboard:  newDashboardModel(ctx, false),
		archive:    newDashboardModel(ctx, true),
		planner:    newPlannerModel(ctx),
		analytics:  newAnalyticsModel(ctx),
		focus:      newFocusModel(ctx),
		profile:    newProfileModel(ctx),
		settings:   newSettingsModel(ctx),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadSession(),
		a.auth.init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadSession restores a persisted token so a restart does not ask for
// credentials again.
func (a App) loadSession() tea.Cmd {
	sess := a.ctx.sess
	return func() tea.Msg {
		token, user, ok, err := sess.LoadSession()
		if err != nil {
			return sessionLoadedMsg{}
		}
		return sessionLoadedMsg{token: token, user: user, ok: ok}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.auth.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.archive.setSize(a.width, contentHeight)
		a.planner.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.profile.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case sessionLoadedMsg:
		if !msg.ok {
			return a, nil
		}
		a.ctx.token = msg.token
		a.ctx.user = msg.user
		a.ctx.api.SetToken(msg.token)
		return a, a.ctx.fetchTargets()

	case authSuccessMsg:
		a.ctx.token = msg.token
		a.ctx.user = msg.user
		a.ctx.api.SetToken(msg.token)
		a.activeView = viewDashboard
		sess := a.ctx.sess
		cmds = append(cmds, a.ctx.fetchTargets(), func() tea.Msg {
			if err := sess.SaveSession(msg.token, msg.user); err != nil {
				return statusMsg{text: fmt.Sprintf("Could not persist session: %v", err), isError: true}
			}
			return nil
		})
		return a, tea.Batch(cmds...)

	case targetsFetchedMsg:
		a.fetchErr = ""
		a.ctx.col.SetAll(msg.targets)
		return a, nil

	case fetchFailedMsg:
		a.fetchErr = fmt.Sprintf("Could not load targets: %v (r to retry)", msg.err)
		return a, nil

	case mutationDoneMsg:
		if msg.echo != nil {
			a.ctx.col.Replace(*msg.echo)
		}
		a.status = msg.note
		a.statusErr = false
		return a, nil

	case mutationFailedMsg:
		// Remote rejected the change: put the collection back exactly as
		// it was before the optimistic apply.
		a.ctx.col.Restore(msg.snap)
		a.status = fmt.Sprintf("Change reverted: %v", msg.err)
		a.statusErr = true
		return a, nil

	case profileUpdatedMsg:
		a.ctx.user = msg.user
		a.status = "Profile updated"
		a.statusErr = false
		sess := a.ctx.sess
		cmds = append(cmds, func() tea.Msg {
			sess.UpdateUser(msg.user)
			return nil
		})
		var cmd tea.Cmd
		a.profile, cmd = a.profile.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case loggedOutMsg:
		a.ctx.token = ""
		a.ctx.user = model.User{}
		a.ctx.api.SetToken("")
		a.ctx.col.Clear()
		a.activeView = viewDashboard
		a.auth = newAuthModel(a.ctx)
		a.auth.setSize(a.width, a.height-4)
		a.status = "Signed out"
		a.statusErr = false
		return a, a.auth.init()

	case importDoneMsg:
		a.ctx.col.SetAll(msg.targets)
		a.status = fmt.Sprintf("Imported %d targets", len(msg.targets))
		a.statusErr = false
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if !a.ctx.authenticated() {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.auth, cmd = a.auth.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form, search, confirm),
		// delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a, a.logout()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewArchive
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPlanner
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewAnalytics
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewFocus
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewProfile
			return a, nil
		case key.Matches(msg, keys.Tab7):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}
	}

	if !a.ctx.authenticated() {
		var cmd tea.Cmd
		a.auth, cmd = a.auth.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewArchive:
		a.archive, cmd = a.archive.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.inputActive()
	case viewArchive:
		return a.archive.inputActive()
	case viewFocus:
		return a.focus.inputActive()
	case viewProfile:
		return a.profile.inputActive()
	case viewSettings:
		return a.settings.inputActive()
	}
	return false
}

func (a App) logout() tea.Cmd {
	sess := a.ctx.sess
	return func() tea.Msg {
		if err := sess.ClearSession(); err != nil {
			return statusMsg{text: fmt.Sprintf("Logout failed: %v", err), isError: true}
		}
		return loggedOutMsg{}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if !a.ctx.authenticated() {
		return a.auth.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewArchive:
		content = a.archive.view()
	case viewPlanner:
		content = a.planner.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewFocus:
		content = a.focus.view()
	case viewProfile:
		content = a.profile.view()
	case viewSettings:
		content = a.settings.view()
	}

	if a.fetchErr != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render(" "+a.fetchErr), content)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("targetflow")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// --- Export picker ---

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"JSON", "CSV"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	targets := a.ctx.col.Targets()
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("targetflow-export-%s.json", dateStr))
			if err := backup.ToJSON(targets, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("targetflow-export-%s.csv", dateStr))
			if err := backup.ToCSV(targets, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
