package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// profileModel shows the signed-in user and lets them edit the profile
// fields. Saving sends the changed fields to the backend and persists the
// updated user locally.
type profileModel struct {
	ctx    *appContext
	width  int
	height int

	formActive bool
	form       *huh.Form
	pending    bool

	// Form field pointers (survive value copies)
	name         *string
	age          *string
	gender       *string
	place        *string
	studentClass *string
	collegeName  *string
}

func newProfileModel(ctx *appContext) profileModel {
	name, age, gender, place, class, college := "", "", "", "", "", ""
	return profileModel{
		ctx:          ctx,
		name:         &name,
		age:          &age,
		gender:       &gender,
		place:        &place,
		studentClass: &class,
		collegeName:  &college,
	}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p profileModel) inputActive() bool {
	return p.formActive
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileUpdatedMsg:
		p.pending = false
		p.formActive = false
		p.form = nil
		return p, nil

	case tea.KeyMsg:
		if p.formActive && p.form != nil {
			return p.updateForm(msg)
		}
		if msg.String() == "e" || msg.String() == "enter" {
			return p.showForm()
		}
	}
	return p, nil
}

func (p profileModel) showForm() (profileModel, tea.Cmd) {
	u := p.ctx.user
	*p.name = u.Name
	*p.age = u.Age
	*p.gender = u.Gender
	*p.place = u.Place
	*p.studentClass = u.StudentClass
	*p.collegeName = u.CollegeName

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(p.name),
			huh.NewInput().Title("Age").Value(p.age),
			huh.NewSelect[string]().Title("Gender").
				Options(
					huh.NewOption("Male", "male"),
					huh.NewOption("Female", "female"),
					huh.NewOption("Other", "other"),
				).Value(p.gender),
			huh.NewInput().Title("Place").Value(p.place),
			huh.NewInput().Title("Class / Year").Value(p.studentClass),
			huh.NewInput().Title("College").Value(p.collegeName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) updateForm(msg tea.Msg) (profileModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}
	if p.pending {
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.pending = true
		return p, p.saveProfile()
	}

	return p, cmd
}

func (p profileModel) saveProfile() tea.Cmd {
	client := p.ctx.api
	fields := map[string]string{
		"name":         *p.name,
		"age":          *p.age,
		"gender":       *p.gender,
		"place":        *p.place,
		"studentClass": *p.studentClass,
		"collegeName":  *p.collegeName,
	}
	fallback := p.ctx.user
	return func() tea.Msg {
		user, err := client.UpdateProfile(context.Background(), fields)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Profile update failed: %v", err), isError: true}
		}
		if user.Email == "" {
			// Backend echoed a partial record; keep the known identity.
			user.Email = fallback.Email
		}
		return profileUpdatedMsg{user: user}
	}
}

func (p profileModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		body := p.form.View()
		if p.pending {
			body = mutedStyle.Render("Saving...")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Edit Profile"), "", body),
		)
	}

	u := p.ctx.user
	rows := []string{
		titleStyle.Render("Profile"),
		"",
		p.renderField("Name", u.Name),
		p.renderField("Email", u.Email),
		p.renderField("Age", u.Age),
		p.renderField("Gender", u.Gender),
		p.renderField("Place", u.Place),
		p.renderField("Class / Year", u.StudentClass),
		p.renderField("College", u.CollegeName),
		"",
		mutedStyle.Render("  e: edit  ctrl+l: logout"),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p profileModel) renderField(label, value string) string {
	if value == "" {
		value = mutedStyle.Render("—")
	} else {
		value = normalItemStyle.Render(value)
	}
	return fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
}
