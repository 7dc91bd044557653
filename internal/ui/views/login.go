package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

const (
	loginFocusEmail = iota
	loginFocusPassword
	loginFocusSubmit
	loginFocusRegister
	loginFocusCount
)

// Login is the sign-in screen.
type Login struct {
	ctx *Ctx

	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errText  string

	width  int
	height int
}

type loginDoneMsg struct{ username string }

// NewLogin creates the login view.
func NewLogin(ctx *Ctx) *Login {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &Login{ctx: ctx, email: email, password: password}
}

func (m *Login) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Login) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		return m, func() tea.Msg { return LoggedInMsg{Username: msg.username} }

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "login failed")
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.ctx.Keys.Tab):
			m.focus = (m.focus + 1) % loginFocusCount
			m.updateFocus()
			return m, nil

		case msg.String() == "shift+tab":
			m.focus = (m.focus - 1 + loginFocusCount) % loginFocusCount
			m.updateFocus()
			return m, nil

		case key.Matches(msg, m.ctx.Keys.Enter):
			switch m.focus {
			case loginFocusRegister:
				return m, func() tea.Msg { return ShowRegisterMsg{} }
			case loginFocusEmail:
				m.focus = loginFocusPassword
				m.updateFocus()
				return m, nil
			default:
				return m, m.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case loginFocusEmail:
		m.email, cmd = m.email.Update(msg)
	case loginFocusPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Login) updateFocus() {
	m.email.Blur()
	m.password.Blur()
	switch m.focus {
	case loginFocusEmail:
		m.email.Focus()
	case loginFocusPassword:
		m.password.Focus()
	}
}

func (m *Login) submit() tea.Cmd {
	email := m.email.Value()
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return nil
	}
	m.busy = true
	m.errText = ""
	auth := m.ctx.Auth
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		username, err := auth.Login(ctx, email, password)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return loginDoneMsg{username: username}
	}
}

func (m *Login) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	emailStyle := s.Input
	passStyle := s.Input
	if m.focus == loginFocusEmail {
		emailStyle = s.InputFocused
	}
	if m.focus == loginFocusPassword {
		passStyle = s.InputFocused
	}

	submit := s.Button.Render("Sign in")
	if m.focus == loginFocusSubmit {
		submit = s.ButtonFocused.Render("Sign in")
	}
	register := s.Button.Render("Register")
	if m.focus == loginFocusRegister {
		register = s.ButtonFocused.Render("Register")
	}

	rows := []string{
		s.Title.Render("Organizer"),
		"",
		emailStyle.Width(w - 8).Render(m.email.View()),
		passStyle.Width(w - 8).Render(m.password.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, submit, " ", register),
	}
	if m.busy {
		rows = append(rows, s.TitleMuted.Render("signing in..."))
	}
	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}
	rows = append(rows, s.Help.Render("tab: next field • enter: submit • ctrl+c: quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}
