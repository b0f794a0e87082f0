package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/targetflow/internal/model"
)

type authMode int

const (
	authLogin authMode = iota
	authSignup
)

// authModel is the login/signup gate shown while the session is anonymous.
type authModel struct {
	ctx    *appContext
	width  int
	height int

	mode    authMode
	form    *huh.Form
	errText string
	pending bool

	// Form field pointers (survive value copies)
	email        *string
	password     *string
	name         *string
	age          *string
	gender       *string
	place        *string
	studentClass *string
	collegeName  *string
}

func newAuthModel(ctx *appContext) authModel {
	email, password := "", ""
	name, age, gender, place, class, college := "", "", "", "", "", ""
	m := authModel{
		ctx:          ctx,
		email:        &email,
		password:     &password,
		name:         &name,
		age:          &age,
		gender:       &gender,
		place:        &place,
		studentClass: &class,
		collegeName:  &college,
	}
	m.form = m.buildForm()
	return m
}

func (a *authModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a authModel) buildForm() *huh.Form {
	if a.mode == authSignup {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Name").Value(a.name),
				huh.NewInput().Title("Email").Value(a.email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(a.password),
			),
			huh.NewGroup(
				huh.NewInput().Title("Age").Value(a.age),
				huh.NewSelect[string]().Title("Gender").
					Options(
						huh.NewOption("Male", "male"),
						huh.NewOption("Female", "female"),
						huh.NewOption("Other", "other"),
					).Value(a.gender),
				huh.NewInput().Title("Place").Value(a.place),
				huh.NewInput().Title("Class / Year").Value(a.studentClass),
				huh.NewInput().Title("College").Value(a.collegeName),
			).Title("Profile"),
		).WithShowHelp(true).WithShowErrors(true)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(a.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(a.password),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (a authModel) init() tea.Cmd {
	return a.form.Init()
}

func (a authModel) update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		// Server rejected the attempt: show the message inline and hand
		// back an editable form.
		a.pending = false
		a.errText = msg.err.Error()
		a.form = a.buildForm()
		return a, a.form.Init()

	case tea.KeyMsg:
		if a.pending {
			return a, nil
		}
		// esc flips between login and signup.
		if msg.String() == "esc" {
			if a.mode == authLogin {
				a.mode = authSignup
			} else {
				a.mode = authLogin
			}
			a.errText = ""
			a.form = a.buildForm()
			return a, a.form.Init()
		}
	}

	if a.pending {
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.pending = true
		a.errText = ""
		return a, a.submit()
	}

	return a, cmd
}

func (a authModel) submit() tea.Cmd {
	mode := a.mode
	creds := model.Credentials{Email: *a.email, Password: *a.password}
	signup := model.Signup{
		Name:         *a.name,
		Age:          *a.age,
		Gender:       *a.gender,
		Place:        *a.place,
		StudentClass: *a.studentClass,
		CollegeName:  *a.collegeName,
		Email:        *a.email,
		Password:     *a.password,
	}
	client := a.ctx.api
	return func() tea.Msg {
		var err error
		var resp struct {
			Token string
			User  model.User
		}
		if mode == authSignup {
			r, e := client.Signup(context.Background(), signup)
			resp.Token, resp.User, err = r.Token, r.User, e
		} else {
			r, e := client.Login(context.Background(), creds)
			resp.Token, resp.User, err = r.Token, r.User, e
		}
		if err != nil {
			return authFailedMsg{err: err}
		}
		return authSuccessMsg{token: resp.Token, user: resp.User}
	}
}

func (a authModel) view() string {
	w := a.width - 4
	if w < 20 {
		w = 20
	}

	modeTitle := "Sign In"
	switchHint := "esc: create an account"
	if a.mode == authSignup {
		modeTitle = "Create Account"
		switchHint = "esc: back to sign in"
	}

	var rows []string
	rows = append(rows, titleStyle.Render("TargetFlow"), "")
	rows = append(rows, subtitleStyle.Render(modeTitle), "")
	if a.errText != "" {
		rows = append(rows, errorStyle.Render(a.errText), "")
	}
	if a.pending {
		rows = append(rows, mutedStyle.Render("Signing in..."))
	} else {
		rows = append(rows, a.form.View())
	}
	rows = append(rows, "", mutedStyle.Render(switchHint))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
