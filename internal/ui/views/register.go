package views

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	appsync "github.com/alvaro-cozano/organizer-cli/internal/sync"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

const registerFieldCount = 6

// Register is the account creation form.
type Register struct {
	ctx *Ctx

	inputs  []textinput.Model
	focus   int // inputs first, then the submit button
	busy    bool
	done    bool // account created, awaiting email verification
	errText string
	notice  string

	width  int
	height int
}

type registerDoneMsg struct{ email string }
type verificationSentMsg struct{}

// NewRegister creates the registration view.
func NewRegister(ctx *Ctx) *Register {
	labels := []string{"first name", "last name", "email", "username", "password", "confirm password"}
	inputs := make([]textinput.Model, registerFieldCount)
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 120
		if i >= 4 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	inputs[0].Focus()
	return &Register{ctx: ctx, inputs: inputs}
}

func (m *Register) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Register) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Register) Update(msg tea.Msg) (*Register, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.busy = false
		m.done = true
		m.notice = "account created. check your email to verify, then sign in (r to resend)"
		return m, nil

	case verificationSentMsg:
		m.busy = false
		m.notice = "verification email sent"
		return m, nil

	case ErrMsg:
		m.busy = false
		if errors.Is(msg.Err, appsync.ErrPasswordMismatch) {
			m.errText = "passwords do not match"
		} else {
			m.errText = api.ErrorMessage(msg.Err, "registration failed")
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.ctx.Keys.Back):
			return m, func() tea.Msg { return ShowLoginMsg{} }

		case key.Matches(msg, m.ctx.Keys.Tab):
			m.focus = (m.focus + 1) % (registerFieldCount + 1)
			m.updateFocus()
			return m, nil

		case msg.String() == "shift+tab":
			m.focus = (m.focus + registerFieldCount) % (registerFieldCount + 1)
			m.updateFocus()
			return m, nil

		case key.Matches(msg, m.ctx.Keys.Enter):
			if m.done {
				return m, func() tea.Msg { return ShowLoginMsg{} }
			}
			if m.focus < registerFieldCount-1 {
				m.focus++
				m.updateFocus()
				return m, nil
			}
			return m, m.submit()

		case m.done && msg.String() == "r":
			return m, m.resend()
		}
	}

	if m.focus < registerFieldCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Register) updateFocus() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if m.focus < registerFieldCount {
		m.inputs[m.focus].Focus()
	}
}

func (m *Register) submit() tea.Cmd {
	form := appsync.RegisterForm{
		FirstName:       m.inputs[0].Value(),
		LastName:        m.inputs[1].Value(),
		Email:           m.inputs[2].Value(),
		Username:        m.inputs[3].Value(),
		Password:        m.inputs[4].Value(),
		PasswordConfirm: m.inputs[5].Value(),
	}
	if form.Email == "" || form.Username == "" || form.Password == "" {
		m.errText = "email, username and password are required"
		return nil
	}
	m.busy = true
	m.errText = ""
	auth := m.ctx.Auth
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := auth.Register(ctx, form); err != nil {
			return ErrMsg{Err: err}
		}
		return registerDoneMsg{email: form.Email}
	}
}

func (m *Register) resend() tea.Cmd {
	email := m.inputs[2].Value()
	m.busy = true
	auth := m.ctx.Auth
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := auth.ResendVerification(ctx, email); err != nil {
			return ErrMsg{Err: err}
		}
		return verificationSentMsg{}
	}
}

func (m *Register) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	rows := []string{s.Title.Render("Create account"), ""}
	for i := range m.inputs {
		style := s.Input
		if m.focus == i {
			style = s.InputFocused
		}
		rows = append(rows, style.Width(w-8).Render(m.inputs[i].View()))
	}

	submit := s.Button.Render("Register")
	if m.focus == registerFieldCount {
		submit = s.ButtonFocused.Render("Register")
	}
	rows = append(rows, submit)

	if m.busy {
		rows = append(rows, s.TitleMuted.Render("working..."))
	}
	if m.notice != "" {
		rows = append(rows, s.Notice.Render(m.notice))
	}
	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}
	rows = append(rows, s.Help.Render("tab: next field • enter: submit • esc: back to sign in"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}
