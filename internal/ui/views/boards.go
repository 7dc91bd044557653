package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

type boardsMode int

const (
	boardsModeList boardsMode = iota
	boardsModeForm
	boardsModeConfirmDelete
	boardsModeConfirmLeave
	boardsModeTransfer
	boardsModeHelp
)

// Boards lists the viewer's boards ordered by their saved position.
type Boards struct {
	ctx *Ctx

	boards  []models.Board
	cursor  int
	mode    boardsMode
	busy    bool
	errText string

	// form state, shared by create and edit
	editing    int64 // 0 when creating
	nameInput  textinput.Model
	usersInput textinput.Model
	formFocus  int

	transferInput textinput.Model
	knownEmails   []string

	width  int
	height int
}

type boardsLoadedMsg struct{}
type knownEmailsMsg struct{ emails []string }
type boardSavedMsg struct{}
type boardGoneMsg struct{}
type adminTransferredMsg struct{}

// NewBoards creates the board list view.
func NewBoards(ctx *Ctx) *Boards {
	name := textinput.New()
	name.Placeholder = "board name"
	name.CharLimit = 80

	users := textinput.New()
	users.Placeholder = "member emails, comma separated"
	users.CharLimit = 400

	transfer := textinput.New()
	transfer.Placeholder = "new admin email"
	transfer.CharLimit = 120

	return &Boards{ctx: ctx, nameInput: name, usersInput: users, transferInput: transfer}
}

func (m *Boards) Init() tea.Cmd {
	return m.load()
}

func (m *Boards) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Boards) load() tea.Cmd {
	m.busy = true
	boards := m.ctx.Boards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := boards.Load(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return boardsLoadedMsg{}
	}
}

// refresh re-reads the cache and keeps the cursor on a valid row.
func (m *Boards) refresh() {
	m.boards = m.ctx.Store.Boards()
	sort.SliceStable(m.boards, func(i, j int) bool {
		a, b := m.boards[i].Membership, m.boards[j].Membership
		if a.PosY != b.PosY {
			return a.PosY < b.PosY
		}
		if a.PosX != b.PosX {
			return a.PosX < b.PosX
		}
		return m.boards[i].ID < m.boards[j].ID
	})
	if len(m.boards) == 0 {
		m.cursor = 0
	} else {
		m.cursor = clamp(m.cursor, 0, len(m.boards)-1)
	}
}

func (m *Boards) Update(msg tea.Msg) (*Boards, tea.Cmd) {
	switch msg := msg.(type) {
	case boardsLoadedMsg:
		m.busy = false
		m.refresh()
		return m, nil

	case knownEmailsMsg:
		m.knownEmails = msg.emails
		return m, nil

	case boardSavedMsg, boardGoneMsg, adminTransferredMsg:
		m.busy = false
		m.mode = boardsModeList
		m.refresh()
		return m, nil

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "board operation failed")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case boardsModeForm:
			return m.updateForm(msg)
		case boardsModeConfirmDelete:
			return m.updateConfirm(msg, m.deleteSelected)
		case boardsModeConfirmLeave:
			return m.updateConfirm(msg, m.leaveSelected)
		case boardsModeTransfer:
			return m.updateTransfer(msg)
		case boardsModeHelp:
			m.mode = boardsModeList
			return m, nil
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Boards) updateList(msg tea.KeyMsg) (*Boards, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		m.cursor = clamp(m.cursor-1, 0, max(0, len(m.boards)-1))
	case key.Matches(msg, k.Down):
		m.cursor = clamp(m.cursor+1, 0, max(0, len(m.boards)-1))

	case key.Matches(msg, k.MoveUp):
		return m, m.move(-1)
	case key.Matches(msg, k.MoveDown):
		return m, m.move(1)

	case key.Matches(msg, k.Enter):
		if b, ok := m.selected(); ok {
			return m, func() tea.Msg { return BoardSelectedMsg{Board: b} }
		}

	case key.Matches(msg, k.New):
		m.editing = 0
		m.nameInput.SetValue("")
		m.usersInput.SetValue("")
		return m, m.openForm()

	case key.Matches(msg, k.Edit):
		if b, ok := m.selected(); ok {
			m.editing = b.ID
			m.nameInput.SetValue(b.BoardName)
			emails := make([]string, 0, len(b.Users))
			for _, u := range b.Users {
				emails = append(emails, u.Email)
			}
			m.usersInput.SetValue(strings.Join(emails, ", "))
			return m, m.openForm()
		}

	case key.Matches(msg, k.Delete):
		if _, ok := m.selected(); ok {
			m.mode = boardsModeConfirmDelete
		}

	case key.Matches(msg, k.Leave):
		if _, ok := m.selected(); ok {
			m.mode = boardsModeConfirmLeave
		}

	case msg.String() == "t":
		if _, ok := m.selected(); ok {
			m.transferInput.SetValue("")
			m.transferInput.Focus()
			m.mode = boardsModeTransfer
		}

	case key.Matches(msg, k.Agenda):
		return m, func() tea.Msg { return OpenAgendaMsg{} }

	case key.Matches(msg, k.Profile):
		return m, func() tea.Msg { return OpenProfileMsg{} }

	case key.Matches(msg, k.Refresh):
		return m, m.load()

	case key.Matches(msg, k.Help):
		m.mode = boardsModeHelp
	}
	return m, nil
}

// openForm enters the create/edit form and fetches the emails the
// viewer can invite, shown as a hint under the members field.
func (m *Boards) openForm() tea.Cmd {
	m.formFocus = 0
	m.nameInput.Focus()
	m.usersInput.Blur()
	m.errText = ""
	m.mode = boardsModeForm

	client := m.ctx.API
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		emails, err := client.KnownEmails(ctx)
		if err != nil {
			// the form works without the hint
			m.ctx.Logger.Debug("known emails unavailable", "err", err)
			return nil
		}
		return knownEmailsMsg{emails: emails}
	}
}

func (m *Boards) updateForm(msg tea.KeyMsg) (*Boards, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = boardsModeList
		return m, nil

	case key.Matches(msg, k.Tab):
		m.formFocus = (m.formFocus + 1) % 2
		if m.formFocus == 0 {
			m.nameInput.Focus()
			m.usersInput.Blur()
		} else {
			m.nameInput.Blur()
			m.usersInput.Focus()
		}
		return m, nil

	case key.Matches(msg, k.Save), key.Matches(msg, k.Enter):
		return m, m.saveForm()
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.usersInput, cmd = m.usersInput.Update(msg)
	}
	return m, cmd
}

func (m *Boards) saveForm() tea.Cmd {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.errText = "board name is required"
		return nil
	}
	board := models.Board{ID: m.editing, BoardName: name}
	for _, email := range strings.Split(m.usersInput.Value(), ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			board.Users = append(board.Users, models.UserRef{Email: email})
		}
	}
	m.busy = true
	boards := m.ctx.Boards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := boards.Save(ctx, board); err != nil {
			return ErrMsg{Err: err}
		}
		return boardSavedMsg{}
	}
}

func (m *Boards) updateConfirm(msg tea.KeyMsg, action func() tea.Cmd) (*Boards, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, action()
	case "n", "N", "esc":
		m.mode = boardsModeList
	}
	return m, nil
}

func (m *Boards) deleteSelected() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		m.mode = boardsModeList
		return nil
	}
	m.busy = true
	boards := m.ctx.Boards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := boards.Delete(ctx, b.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return boardGoneMsg{}
	}
}

func (m *Boards) leaveSelected() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		m.mode = boardsModeList
		return nil
	}
	m.busy = true
	boards := m.ctx.Boards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := boards.Leave(ctx, b.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return boardGoneMsg{}
	}
}

func (m *Boards) updateTransfer(msg tea.KeyMsg) (*Boards, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = boardsModeList
		return m, nil

	case key.Matches(msg, k.Enter):
		b, ok := m.selected()
		email := strings.TrimSpace(m.transferInput.Value())
		if !ok || email == "" {
			m.mode = boardsModeList
			return m, nil
		}
		m.busy = true
		boards := m.ctx.Boards
		return m, func() tea.Msg {
			ctx, cancel := m.ctx.timeout()
			defer cancel()
			if err := boards.TransferAdmin(ctx, b.ID, email); err != nil {
				return ErrMsg{Err: err}
			}
			return adminTransferredMsg{}
		}
	}

	var cmd tea.Cmd
	m.transferInput, cmd = m.transferInput.Update(msg)
	return m, cmd
}

// move swaps the selected board's saved position with its neighbor and
// pushes both rows to the server in a single batch.
func (m *Boards) move(delta int) tea.Cmd {
	other := m.cursor + delta
	if other < 0 || other >= len(m.boards) {
		return nil
	}
	a, b := m.boards[m.cursor], m.boards[other]
	positions := []models.UserBoardPosition{
		{BoardID: a.ID, PosX: b.Membership.PosX, PosY: b.Membership.PosY},
		{BoardID: b.ID, PosX: a.Membership.PosX, PosY: a.Membership.PosY},
	}
	m.cursor = other
	posSync := m.ctx.Positions
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := posSync.Update(ctx, positions...); err != nil {
			return ErrMsg{Err: err}
		}
		return boardsLoadedMsg{}
	}
}

func (m *Boards) selected() (models.Board, bool) {
	if m.cursor < 0 || m.cursor >= len(m.boards) {
		return models.Board{}, false
	}
	return m.boards[m.cursor], true
}

func (m *Boards) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	title := s.Title.Render("Boards")
	if m.busy {
		title += s.TitleMuted.Render("  loading...")
	}
	rows := []string{title, ""}

	switch m.mode {
	case boardsModeForm:
		heading := "New board"
		if m.editing != 0 {
			heading = "Edit board"
		}
		rows = append(rows,
			s.ColumnHeader.Render(heading),
			m.formInput(m.nameInput, m.formFocus == 0, w),
			m.formInput(m.usersInput, m.formFocus == 1, w),
		)
		if len(m.knownEmails) > 0 {
			rows = append(rows, s.TitleMuted.Render("known: "+strings.Join(m.knownEmails, ", ")))
		}
		rows = append(rows, s.Help.Render("tab: switch field • enter: save • esc: cancel"))

	case boardsModeTransfer:
		rows = append(rows,
			s.ColumnHeader.Render("Transfer admin"),
			s.InputFocused.Width(w-8).Render(m.transferInput.View()),
			s.Help.Render("enter: transfer • esc: cancel"),
		)

	case boardsModeConfirmDelete:
		rows = append(rows, m.confirmLine("Delete this board and all its cards?"))

	case boardsModeConfirmLeave:
		rows = append(rows, m.confirmLine("Leave this board?"))

	case boardsModeHelp:
		rows = append(rows, m.renderHelp())

	default:
		if len(m.boards) == 0 && !m.busy {
			rows = append(rows, s.TitleMuted.Render("no boards yet, press n to create one"))
		}
		for i, b := range m.boards {
			line := b.BoardName
			if b.Membership.IsAdmin {
				line += " " + s.TitleMuted.Render("(admin)")
			}
			if len(b.Users) > 1 {
				line += " " + s.TitleMuted.Render(fmt.Sprintf("· %d members", len(b.Users)))
			}
			if i == m.cursor {
				rows = append(rows, s.ListSelected.Render(line))
			} else {
				rows = append(rows, s.ListItem.Render(line))
			}
		}
		rows = append(rows, "", s.Help.Render("enter: open • n: new • e: edit • d: delete • J/K: reorder • ?: more"))
	}

	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}

func (m *Boards) formInput(in textinput.Model, focused bool, w int) string {
	if focused {
		return m.ctx.Styles.InputFocused.Width(w - 8).Render(in.View())
	}
	return m.ctx.Styles.Input.Width(w - 8).Render(in.View())
}

func (m *Boards) confirmLine(prompt string) string {
	s := m.ctx.Styles
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Notice.Render(prompt),
		s.Help.Render("y: confirm • n: cancel"),
	)
}

func (m *Boards) renderHelp() string {
	s := m.ctx.Styles
	lines := []string{
		s.HelpKey.Render("enter") + s.HelpDesc.Render("  open board"),
		s.HelpKey.Render("n / e / d") + s.HelpDesc.Render("  new / edit / delete"),
		s.HelpKey.Render("J / K") + s.HelpDesc.Render("  reorder boards"),
		s.HelpKey.Render("t") + s.HelpDesc.Render("  transfer admin"),
		s.HelpKey.Render("ctrl+l") + s.HelpDesc.Render("  leave board"),
		s.HelpKey.Render("a") + s.HelpDesc.Render("  agenda"),
		s.HelpKey.Render("p") + s.HelpDesc.Render("  profile"),
		s.HelpKey.Render("r") + s.HelpDesc.Render("  refresh"),
		s.HelpKey.Render("q") + s.HelpDesc.Render("  quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
