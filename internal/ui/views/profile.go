package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

type profileMode int

const (
	profileModeView profileMode = iota
	profileModeEdit
	profileModeConfirmLogout
)

const profileFieldCount = 5 // first, last, username, password, confirm

// Profile shows the viewer's account and subscription state.
type Profile struct {
	ctx *Ctx

	profile      models.Profile
	subscription *models.Subscription
	mode         profileMode
	busy         bool
	errText      string
	notice       string

	inputs    []textinput.Model
	formFocus int

	width  int
	height int
}

type profileLoadedMsg struct {
	profile models.Profile
	sub     *models.Subscription
}
type profileSavedMsg struct{}
type subscriptionChangedMsg struct{ sub *models.Subscription }
type checkoutReadyMsg struct{ url string }

// NewProfile creates the profile view.
func NewProfile(ctx *Ctx) *Profile {
	placeholders := []string{"first name", "last name", "username", "new password", "confirm password"}
	inputs := make([]textinput.Model, profileFieldCount)
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 120
		if i >= 3 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	return &Profile{ctx: ctx, inputs: inputs}
}

func (m *Profile) Init() tea.Cmd {
	return m.load()
}

func (m *Profile) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// load fetches the profile and, best effort, the subscription status.
func (m *Profile) load() tea.Cmd {
	m.busy = true
	ctx0 := m.ctx
	return func() tea.Msg {
		ctx, cancel := ctx0.timeout()
		defer cancel()
		profile, err := ctx0.Auth.LoadProfile(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		sub, err := ctx0.Billing.Status(ctx)
		if err != nil {
			ctx0.Logger.Debug("subscription status unavailable", "err", err)
			sub = nil
		}
		return profileLoadedMsg{profile: *profile, sub: sub}
	}
}

func (m *Profile) Update(msg tea.Msg) (*Profile, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.busy = false
		m.profile = msg.profile
		m.subscription = msg.sub
		return m, nil

	case profileSavedMsg:
		m.busy = false
		m.mode = profileModeView
		m.notice = "profile updated"
		return m, m.load()

	case subscriptionChangedMsg:
		m.busy = false
		m.subscription = msg.sub
		return m, nil

	case checkoutReadyMsg:
		m.busy = false
		m.notice = "open in a browser to pay: " + msg.url
		return m, nil

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "profile operation failed")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case profileModeEdit:
			return m.updateEdit(msg)
		case profileModeConfirmLogout:
			switch msg.String() {
			case "y", "Y":
				m.ctx.Auth.Logout()
				return m, func() tea.Msg { return LoggedOutMsg{} }
			case "n", "N", "esc":
				m.mode = profileModeView
			}
			return m, nil
		default:
			return m.updateView(msg)
		}
	}
	return m, nil
}

func (m *Profile) updateView(msg tea.KeyMsg) (*Profile, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back), key.Matches(msg, k.Boards):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, k.Edit):
		m.startEdit()

	case msg.String() == "s":
		return m, m.checkout()

	case msg.String() == "x":
		if m.subscription != nil {
			return m, m.cancelSubscription()
		}

	case msg.String() == "R":
		if m.subscription != nil && m.subscription.CancelAtPeriodEnd {
			return m, m.reactivate()
		}

	case msg.String() == "Q":
		m.mode = profileModeConfirmLogout

	case key.Matches(msg, k.Refresh):
		return m, m.load()
	}
	return m, nil
}

func (m *Profile) startEdit() {
	m.inputs[0].SetValue(m.profile.FirstName)
	m.inputs[1].SetValue(m.profile.LastName)
	m.inputs[2].SetValue(m.profile.Username)
	m.inputs[3].SetValue("")
	m.inputs[4].SetValue("")
	m.formFocus = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[0].Focus()
	m.errText = ""
	m.notice = ""
	m.mode = profileModeEdit
}

func (m *Profile) updateEdit(msg tea.KeyMsg) (*Profile, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = profileModeView
		return m, nil

	case key.Matches(msg, k.Tab):
		m.formFocus = (m.formFocus + 1) % profileFieldCount
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		m.inputs[m.formFocus].Focus()
		return m, nil

	case key.Matches(msg, k.Save):
		return m, m.saveEdit()
	}

	var cmd tea.Cmd
	m.inputs[m.formFocus], cmd = m.inputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Profile) saveEdit() tea.Cmd {
	password, confirm := m.inputs[3].Value(), m.inputs[4].Value()
	if password != confirm {
		m.errText = "passwords do not match"
		return nil
	}
	updated := m.profile
	updated.FirstName = m.inputs[0].Value()
	updated.LastName = m.inputs[1].Value()
	updated.Username = m.inputs[2].Value()
	updated.Password1 = password
	updated.Password2 = confirm

	m.busy = true
	auth := m.ctx.Auth
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := auth.UpdateProfile(ctx, updated.ID, updated); err != nil {
			return ErrMsg{Err: err}
		}
		return profileSavedMsg{}
	}
}

func (m *Profile) checkout() tea.Cmd {
	m.busy = true
	billing := m.ctx.Billing
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		session, err := billing.Checkout(ctx, "")
		if err != nil {
			return ErrMsg{Err: err}
		}
		return checkoutReadyMsg{url: session.CheckoutURL}
	}
}

func (m *Profile) cancelSubscription() tea.Cmd {
	m.busy = true
	billing := m.ctx.Billing
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		sub, err := billing.Cancel(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return subscriptionChangedMsg{sub: sub}
	}
}

func (m *Profile) reactivate() tea.Cmd {
	m.busy = true
	billing := m.ctx.Billing
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		sub, err := billing.Reactivate(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return subscriptionChangedMsg{sub: sub}
	}
}

func (m *Profile) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	title := s.Title.Render("Profile")
	if m.busy {
		title += s.TitleMuted.Render("  working...")
	}
	rows := []string{title, ""}

	switch m.mode {
	case profileModeEdit:
		for i := range m.inputs {
			style := s.Input
			if m.formFocus == i {
				style = s.InputFocused
			}
			rows = append(rows, style.Width(w-8).Render(m.inputs[i].View()))
		}
		rows = append(rows, s.Help.Render("tab: next field • ctrl+s: save • esc: cancel"))

	case profileModeConfirmLogout:
		rows = append(rows,
			s.Notice.Render("Log out and clear stored credentials?"),
			s.Help.Render("y: confirm • n: cancel"))

	default:
		rows = append(rows,
			s.ColumnHeader.Render(m.profile.Username),
			s.ListItem.Render(m.profile.FirstName+" "+m.profile.LastName),
			s.ListItem.Render(m.profile.Email),
			"")
		if m.subscription != nil {
			state := m.subscription.Status
			if m.subscription.CancelAtPeriodEnd {
				state += " (cancels at period end)"
			}
			rows = append(rows, s.ColumnHeader.Render("Subscription"), s.ListItem.Render(state))
		} else {
			rows = append(rows, s.TitleMuted.Render("no active subscription, press s to subscribe"))
		}
		rows = append(rows, "", s.Help.Render("e: edit • s: subscribe • x: cancel sub • R: reactivate • Q: log out • esc: back"))
	}

	if m.notice != "" {
		rows = append(rows, s.Notice.Render(m.notice))
	}
	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}
