package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/chat"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// chatTimestampLayout matches what the server stores for messages.
const chatTimestampLayout = "2006-01-02 15:04:05"

// Chat is the realtime board chat. History comes over HTTP once, then
// the websocket channel delivers live messages.
type Chat struct {
	ctx   *Ctx
	board models.Board

	channel  *chat.Channel
	messages []models.ChatMessage
	email    string

	viewport viewport.Model
	input    textinput.Model
	errText  string
	closed   bool

	width  int
	height int
}

type chatConnectedMsg struct {
	channel *chat.Channel
	history []models.ChatMessage
	email   string
}
type chatIncomingMsg struct{ msg models.ChatMessage }
type chatClosedMsg struct{}

// NewChat creates the chat view for one board.
func NewChat(ctx *Ctx, board models.Board) *Chat {
	input := textinput.New()
	input.Placeholder = "message"
	input.CharLimit = 500
	input.Focus()

	vp := viewport.New(60, 10)
	return &Chat{ctx: ctx, board: board, input: input, viewport: vp}
}

func (m *Chat) Init() tea.Cmd {
	return m.connect()
}

func (m *Chat) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 6
	m.viewport.Height = max(4, height-8)
	m.renderMessages()
}

// connect loads history, resolves the sender identity, then dials the
// websocket with the history seeding the de-duplication set.
func (m *Chat) connect() tea.Cmd {
	ctx0 := m.ctx
	board := m.board
	return func() tea.Msg {
		ctx, cancel := ctx0.timeout()
		defer cancel()

		history, err := ctx0.API.ChatHistory(ctx, board.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		profile, err := ctx0.Auth.LoadProfile(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		wsURL, err := chat.URLFromBase(ctx0.ChatURL)
		if err != nil {
			return ErrMsg{Err: err}
		}
		channel, err := chat.Dial(ctx, wsURL, board.ID, history, ctx0.Logger)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return chatConnectedMsg{channel: channel, history: history, email: profile.Email}
	}
}

// waitForMessage blocks on the channel and re-arms itself after every
// delivery.
func (m *Chat) waitForMessage() tea.Cmd {
	channel := m.channel
	return func() tea.Msg {
		msg, ok := <-channel.Messages()
		if !ok {
			return chatClosedMsg{}
		}
		return chatIncomingMsg{msg: msg}
	}
}

// Close tears down the websocket. The app calls it when leaving the view.
func (m *Chat) Close() {
	if m.channel != nil {
		m.channel.Close()
	}
}

func (m *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case chatConnectedMsg:
		m.channel = msg.channel
		m.messages = msg.history
		m.email = msg.email
		m.renderMessages()
		return m, m.waitForMessage()

	case chatIncomingMsg:
		m.messages = append(m.messages, msg.msg)
		m.renderMessages()
		return m, m.waitForMessage()

	case chatClosedMsg:
		m.closed = true
		m.errText = "chat connection closed, press r to reconnect"
		return m, nil

	case ErrMsg:
		m.errText = api.ErrorMessage(msg.Err, "chat unavailable")
		return m, nil

	case tea.KeyMsg:
		k := m.ctx.Keys
		switch {
		case key.Matches(msg, k.Back):
			m.Close()
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, k.Enter):
			return m, m.send()

		case m.closed && msg.String() == "r":
			m.closed = false
			m.errText = ""
			return m, m.connect()
		}

		var inputCmd, vpCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(inputCmd, vpCmd)
	}
	return m, nil
}

// send publishes the input locally and over the channel. The local echo
// is keyed identically to the broadcast frame, so the channel's
// de-duplication drops the server's copy when it comes back.
func (m *Chat) send() tea.Cmd {
	content := m.input.Value()
	if content == "" || m.channel == nil {
		return nil
	}
	msg := models.ChatMessage{
		Email:     m.email,
		Content:   content,
		Timestamp: time.Now().Format(chatTimestampLayout),
		BoardID:   m.board.ID,
	}
	m.channel.Send(msg)
	m.messages = append(m.messages, msg)
	m.input.SetValue("")
	m.renderMessages()
	return nil
}

func (m *Chat) renderMessages() {
	s := m.ctx.Styles
	lines := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		sender := msg.Email
		if sender == m.email {
			sender = "you"
		}
		line := s.ChatSender.Render(sender)
		if msg.Timestamp != "" {
			line += s.TitleMuted.Render(" " + msg.Timestamp)
		}
		lines = append(lines, line, s.ChatBody.Render(msg.Content))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, lines...))
	m.viewport.GotoBottom()
}

func (m *Chat) View() string {
	s := m.ctx.Styles

	title := s.Title.Render(fmt.Sprintf("Chat · %s", m.board.BoardName))
	rows := []string{
		title,
		"",
		m.viewport.View(),
		s.InputFocused.Width(max(20, m.width-8)).Render(m.input.View()),
		s.Help.Render("enter: send • esc: back to board"),
	}
	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}
