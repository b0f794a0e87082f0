package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/targetflow/internal/model"
)

// dashboardModel renders the target list. The same model backs the
// Dashboard and Archive tabs; only the partition differs. The list is
// re-derived from the collection on every render, never cached.
type dashboardModel struct {
	ctx      *appContext
	archived bool
	width    int
	height   int

	cursor    int
	searching bool
	search    textinput.Model

	detail *detailModel

	confirmDelete bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formDue         *string
	formTags        *string
}

func newDashboardModel(ctx *appContext, archived bool) dashboardModel {
	title, desc, due, tags := "", "", "", ""
	search := textinput.New()
	search.Placeholder = "title or tag"
	search.Prompt = "/ "
	search.CharLimit = 64
	return dashboardModel{
		ctx:             ctx,
		archived:        archived,
		search:          search,
		formTitle:       &title,
		formDescription: &desc,
		formDue:         &due,
		formTags:        &tags,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	if d.detail != nil {
		d.detail.setSize(w, h)
	}
}

// inputActive reports whether this view is capturing raw key input.
func (d dashboardModel) inputActive() bool {
	if d.detail != nil {
		return d.detail.inputActive()
	}
	return d.searching || d.formActive || d.confirmDelete
}

func (d dashboardModel) visible() []model.Target {
	return model.Visible(d.ctx.col.Targets(), d.archived, d.search.Value())
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// An open detail view owns the input until it closes.
	if d.detail != nil {
		det, cmd, closed := d.detail.update(msg)
		if closed {
			d.detail = nil
		} else {
			d.detail = &det
		}
		return d, cmd
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if d.confirmDelete {
			return d.updateConfirm(msg)
		}
		if d.searching {
			return d.updateSearch(msg)
		}
		return d.updateList(msg)
	}
	return d, nil
}

func (d dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	targets := d.visible()

	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(targets)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Search):
		d.searching = true
		d.search.Focus()
		return d, textinput.Blink
	case key.Matches(msg, keys.Enter):
		if d.cursor < len(targets) {
			det := newDetailModel(d.ctx, targets[d.cursor].Key())
			det.setSize(d.width, d.height)
			d.detail = &det
		}
	case key.Matches(msg, keys.New):
		if !d.archived {
			return d.showNewTargetForm()
		}
	case key.Matches(msg, keys.Pin):
		if d.cursor < len(targets) {
			return d, d.togglePin(targets[d.cursor])
		}
	case key.Matches(msg, keys.Archive):
		if d.cursor < len(targets) {
			return d, d.toggleArchive(targets[d.cursor])
		}
	case key.Matches(msg, keys.Delete):
		if d.cursor < len(targets) {
			d.confirmDelete = true
		}
	case key.Matches(msg, keys.Refresh):
		return d, d.ctx.fetchTargets()
	}
	return d, nil
}

func (d dashboardModel) updateSearch(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.searching = false
		d.search.SetValue("")
		d.search.Blur()
		d.cursor = 0
		return d, nil
	case "enter":
		d.searching = false
		d.search.Blur()
		d.cursor = 0
		return d, nil
	}
	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	d.cursor = 0
	return d, cmd
}

func (d dashboardModel) updateConfirm(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		d.confirmDelete = false
		targets := d.visible()
		if d.cursor < len(targets) {
			return d, d.deleteTarget(targets[d.cursor])
		}
	case "n", "N", "esc":
		d.confirmDelete = false
	}
	return d, nil
}

// --- Mutations (all through the uniform optimistic protocol) ---

func (d dashboardModel) togglePin(t model.Target) tea.Cmd {
	ctx := d.ctx
	key := t.Key()
	pinned := !t.Pinned
	patch := model.TargetPatch{Pinned: &pinned}
	note := "Pinned"
	if !pinned {
		note = "Unpinned"
	}
	return ctx.mutate(
		func() { ctx.col.Patch(key, patch) },
		func(c context.Context) (*model.Target, error) {
			_, err := ctx.api.PatchTarget(c, key, patch)
			return nil, err
		},
		note,
	)
}

func (d dashboardModel) toggleArchive(t model.Target) tea.Cmd {
	ctx := d.ctx
	key := t.Key()
	// Archiving always clears the pin in the same patch.
	archived := !t.Archived
	pinned := false
	patch := model.TargetPatch{Archived: &archived, Pinned: &pinned}
	note := "Archived"
	if !archived {
		note = "Restored"
	}
	return ctx.mutate(
		func() { ctx.col.Patch(key, patch) },
		func(c context.Context) (*model.Target, error) {
			_, err := ctx.api.PatchTarget(c, key, patch)
			return nil, err
		},
		note,
	)
}

func (d dashboardModel) deleteTarget(t model.Target) tea.Cmd {
	ctx := d.ctx
	key := t.Key()
	return ctx.mutate(
		func() { ctx.col.Remove(key) },
		func(c context.Context) (*model.Target, error) {
			return nil, ctx.api.DeleteTarget(c, key)
		},
		"Target deleted",
	)
}

func (d dashboardModel) createTarget() tea.Cmd {
	ctx := d.ctx
	target := model.Target{
		LocalID:     uuid.NewString(),
		Title:       *d.formTitle,
		Description: *d.formDescription,
		DueDate:     *d.formDue,
		Tags:        model.ParseTags(*d.formTags),
		Logs:        []model.Log{},
	}
	return ctx.mutate(
		func() { ctx.col.Add(target) },
		func(c context.Context) (*model.Target, error) {
			echo, err := ctx.api.CreateTarget(c, target)
			if err != nil {
				return nil, err
			}
			return &echo, nil
		},
		"Target created",
	)
}

// --- New target form ---

func (d dashboardModel) showNewTargetForm() (dashboardModel, tea.Cmd) {
	*d.formTitle = ""
	*d.formDescription = ""
	*d.formDue = ""
	*d.formTags = ""

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(d.formTitle),
			huh.NewInput().Title("Description").Value(d.formDescription),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(d.formDue),
			huh.NewInput().Title("Tags (comma-separated)").Value(d.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		if *d.formTitle != "" {
			return d, d.createTarget()
		}
		return d, nil
	}

	return d, cmd
}

// --- Rendering ---

func (d dashboardModel) view() string {
	if d.detail != nil {
		return d.detail.view()
	}

	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Target")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	targets := d.visible()

	heading := "Targets"
	if d.archived {
		heading = "Archived Targets"
	}
	title := titleStyle.Render(heading)

	var rows []string
	rows = append(rows, title)

	if d.searching || d.search.Value() != "" {
		rows = append(rows, d.search.View())
	}
	if chips := d.renderTagChips(); chips != "" {
		rows = append(rows, chips)
	}
	rows = append(rows, "")

	if len(targets) == 0 {
		empty := "No targets yet. Press n to create one."
		if d.archived {
			empty = "Nothing archived."
		} else if d.search.Value() != "" {
			empty = "No matches for " + d.search.Value() + "."
		}
		rows = append(rows, mutedStyle.Render(empty))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	for i, t := range targets {
		rows = append(rows, d.renderTargetRow(t, i == d.cursor))
	}

	rows = append(rows, "")
	if d.confirmDelete && d.cursor < len(targets) {
		prompt := fmt.Sprintf("  Delete %q and all its logs? (y/n)", targets[d.cursor].Title)
		rows = append(rows, errorStyle.Render(prompt))
	} else if d.archived {
		rows = append(rows, mutedStyle.Render("  enter: logs  a: restore  d: delete  /: search"))
	} else {
		rows = append(rows, mutedStyle.Render("  n: new  enter: logs  p: pin  a: archive  d: delete  /: search"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTargetRow(t model.Target, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	pin := "  "
	if t.Pinned {
		pin = pinnedStyle.Render("⚑ ")
	}

	status := model.DeadlineStatus(model.DaysLeft(t.DueDate, time.Now()), t.Archived)
	badge := statusStyle(status.Kind).Render("[" + status.Label + "]")

	total := model.TotalProgress(t.Logs)
	progress := mutedStyle.Render(fmt.Sprintf("%d done · %d logs", total, len(t.Logs)))

	tags := ""
	if len(t.Tags) > 0 {
		tags = tagStyle.Render(" #" + strings.Join(t.Tags, " #"))
	}

	name := style.Render(fmt.Sprintf("%s%s%-28s", cursor, pin, truncate(t.Title, 28)))
	return fmt.Sprintf("%s %s  %s%s", name, badge, progress, tags)
}

func (d dashboardModel) renderTagChips() string {
	tags := model.UniqueTags(model.Visible(d.ctx.col.Targets(), d.archived, ""))
	if len(tags) == 0 {
		return ""
	}
	var chips []string
	for _, tag := range tags {
		chips = append(chips, tagStyle.Render("#"+tag))
	}
	return "  " + strings.Join(chips, "  ")
}
