package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/targetflow/internal/api"
	"github.com/sadopc/targetflow/internal/model"
	"github.com/sadopc/targetflow/internal/session"
	"github.com/sadopc/targetflow/internal/state"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewArchive
	viewPlanner
	viewAnalytics
	viewFocus
	viewProfile
	viewSettings
)

var viewNames = []string{"Dashboard", "Archive", "Planner", "Analytics", "Focus", "Profile", "Settings"}

// appContext is the shared application state passed to every view: the API
// client, the local session store, the in-memory target collection, and the
// current session. It is created once at startup and torn down on logout.
type appContext struct {
	api  *api.Client
	sess *session.Store
	col  *state.Collection

	token string
	user  model.User
}

func (c *appContext) authenticated() bool {
	return c.token != ""
}

// mutate runs the optimistic mutation protocol: snapshot the collection,
// apply the change locally, then issue the remote call. On failure the
// returned message carries the snapshot so the app can roll back; on
// success a non-nil echo replaces the local target with the server's
// representation. Every mutation type goes through this path.
func (c *appContext) mutate(apply func(), call func(ctx context.Context) (*model.Target, error), note string) tea.Cmd {
	snap := c.col.Snapshot()
	apply()
	return func() tea.Msg {
		echo, err := call(context.Background())
		if err != nil {
			return mutationFailedMsg{snap: snap, err: err}
		}
		return mutationDoneMsg{echo: echo, note: note}
	}
}

// fetchTargets loads the collection from the backend. Without a token it
// short-circuits silently: nothing to fetch yet, not a failure.
func (c *appContext) fetchTargets() tea.Cmd {
	if !c.authenticated() {
		return nil
	}
	return func() tea.Msg {
		targets, err := c.api.ListTargets(context.Background())
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return targetsFetchedMsg{targets: targets}
	}
}

// --- Messages ---

type sessionLoadedMsg struct {
	token string
	user  model.User
	ok    bool
}

type authSuccessMsg struct {
	token string
	user  model.User
}

type authFailedMsg struct {
	err error
}

type targetsFetchedMsg struct {
	targets []model.Target
}

type fetchFailedMsg struct {
	err error
}

type mutationDoneMsg struct {
	echo *model.Target
	note string
}

type mutationFailedMsg struct {
	snap state.Snapshot
	err  error
}

type profileUpdatedMsg struct {
	user model.User
}

type loggedOutMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	targets []model.Target
}

// --- Helpers ---

func today() string {
	return time.Now().Format("2006-01-02")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
