package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

type kanbanMode int

const (
	kanbanModeBoard kanbanMode = iota
	kanbanModeNewCard
	kanbanModeStatusForm
	kanbanModeConfirmDeleteCard
	kanbanModeConfirmDeleteStatus
	kanbanModeHelp
)

// Kanban renders one board as status columns with their cards.
type Kanban struct {
	ctx   *Ctx
	board models.Board

	statuses []models.Status
	cards    map[int64][]models.Card

	focusCol int
	focusRow int
	mode     kanbanMode
	busy     bool
	errText  string

	titleInput    textinput.Model
	editingStatus int64 // 0 when creating

	width  int
	height int
}

type boardOpenedMsg struct{}
type bucketRefreshedMsg struct{}
type kanbanCardSavedMsg struct{}
type statusSavedMsg struct{}

// NewKanban creates the kanban view for one board.
func NewKanban(ctx *Ctx, board models.Board) *Kanban {
	title := textinput.New()
	title.CharLimit = 120
	return &Kanban{ctx: ctx, board: board, titleInput: title, cards: map[int64][]models.Card{}}
}

func (m *Kanban) Init() tea.Cmd {
	return m.loadBoard()
}

func (m *Kanban) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Board returns the board this view renders.
func (m *Kanban) Board() models.Board {
	return m.board
}

// loadBoard fetches the board's statuses, then every column's cards and
// the board's labels, before signalling the view.
func (m *Kanban) loadBoard() tea.Cmd {
	m.busy = true
	ctx0 := m.ctx
	boardID := m.board.ID
	return func() tea.Msg {
		ctx, cancel := ctx0.timeout()
		defer cancel()
		if err := ctx0.Statuses.Load(ctx, boardID); err != nil {
			return ErrMsg{Err: err}
		}
		for _, st := range ctx0.Store.Statuses() {
			if err := ctx0.Cards.LoadByBoardAndStatus(ctx, boardID, st.ID); err != nil {
				return ErrMsg{Err: err}
			}
		}
		if err := ctx0.Labels.Load(ctx, boardID); err != nil {
			return ErrMsg{Err: err}
		}
		return boardOpenedMsg{}
	}
}

// refresh re-reads the cache.
func (m *Kanban) refresh() {
	m.statuses = m.ctx.Store.Statuses()
	m.cards = make(map[int64][]models.Card, len(m.statuses))
	for _, st := range m.statuses {
		m.cards[st.ID] = m.ctx.Store.CardsByStatus(st.ID)
	}
	if len(m.statuses) == 0 {
		m.focusCol, m.focusRow = 0, 0
		return
	}
	m.focusCol = clamp(m.focusCol, 0, len(m.statuses)-1)
	m.focusRow = clamp(m.focusRow, 0, max(0, len(m.cards[m.statuses[m.focusCol].ID])-1))
}

func (m *Kanban) Update(msg tea.Msg) (*Kanban, tea.Cmd) {
	switch msg := msg.(type) {
	case boardOpenedMsg, bucketRefreshedMsg, kanbanCardSavedMsg, statusSavedMsg:
		m.busy = false
		if m.mode == kanbanModeNewCard || m.mode == kanbanModeStatusForm ||
			m.mode == kanbanModeConfirmDeleteCard || m.mode == kanbanModeConfirmDeleteStatus {
			m.mode = kanbanModeBoard
		}
		m.refresh()
		return m, nil

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "board operation failed")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case kanbanModeNewCard:
			return m.updateTitlePrompt(msg, m.saveNewCard)
		case kanbanModeStatusForm:
			return m.updateTitlePrompt(msg, m.saveStatus)
		case kanbanModeConfirmDeleteCard:
			return m.updateConfirm(msg, m.deleteCard)
		case kanbanModeConfirmDeleteStatus:
			return m.updateConfirm(msg, m.deleteStatus)
		case kanbanModeHelp:
			m.mode = kanbanModeBoard
			return m, nil
		default:
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m *Kanban) updateBoard(msg tea.KeyMsg) (*Kanban, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back), key.Matches(msg, k.Boards):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, k.Left):
		m.focusCol = clamp(m.focusCol-1, 0, max(0, len(m.statuses)-1))
		m.clampRow()
	case key.Matches(msg, k.Right):
		m.focusCol = clamp(m.focusCol+1, 0, max(0, len(m.statuses)-1))
		m.clampRow()
	case key.Matches(msg, k.Up):
		m.focusRow = clamp(m.focusRow-1, 0, max(0, m.colLen()-1))
	case key.Matches(msg, k.Down):
		m.focusRow = clamp(m.focusRow+1, 0, max(0, m.colLen()-1))

	case key.Matches(msg, k.MoveUp):
		return m, m.reorder(-1)
	case key.Matches(msg, k.MoveDown):
		return m, m.reorder(1)
	case key.Matches(msg, k.MoveLeft):
		return m, m.moveAcross(-1)
	case key.Matches(msg, k.MoveRight):
		return m, m.moveAcross(1)

	case key.Matches(msg, k.Enter), key.Matches(msg, k.Edit):
		if c, ok := m.selectedCard(); ok {
			return m, func() tea.Msg { return CardSelectedMsg{Card: c} }
		}

	case key.Matches(msg, k.New):
		if len(m.statuses) == 0 {
			m.errText = "create a column first (S)"
			return m, nil
		}
		m.titleInput.Placeholder = "card title"
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		m.mode = kanbanModeNewCard

	case msg.String() == "S":
		m.editingStatus = 0
		m.titleInput.Placeholder = "column name"
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		m.mode = kanbanModeStatusForm

	case msg.String() == "E":
		if st, ok := m.selectedStatus(); ok {
			m.editingStatus = st.ID
			m.titleInput.Placeholder = "column name"
			m.titleInput.SetValue(st.Name)
			m.titleInput.Focus()
			m.mode = kanbanModeStatusForm
		}

	case msg.String() == "D":
		if _, ok := m.selectedStatus(); ok {
			m.mode = kanbanModeConfirmDeleteStatus
		}

	case key.Matches(msg, k.Delete):
		if _, ok := m.selectedCard(); ok {
			m.mode = kanbanModeConfirmDeleteCard
		}

	case msg.String() == "f":
		return m, m.toggleFinished()

	case key.Matches(msg, k.Chat):
		board := m.board
		return m, func() tea.Msg { return OpenChatMsg{Board: board} }

	case key.Matches(msg, k.Refresh):
		return m, m.loadBoard()

	case key.Matches(msg, k.Help):
		m.mode = kanbanModeHelp
	}
	return m, nil
}

func (m *Kanban) colLen() int {
	if st, ok := m.selectedStatus(); ok {
		return len(m.cards[st.ID])
	}
	return 0
}

func (m *Kanban) clampRow() {
	m.focusRow = clamp(m.focusRow, 0, max(0, m.colLen()-1))
}

func (m *Kanban) selectedStatus() (models.Status, bool) {
	if m.focusCol < 0 || m.focusCol >= len(m.statuses) {
		return models.Status{}, false
	}
	return m.statuses[m.focusCol], true
}

func (m *Kanban) selectedCard() (models.Card, bool) {
	st, ok := m.selectedStatus()
	if !ok {
		return models.Card{}, false
	}
	col := m.cards[st.ID]
	if m.focusRow < 0 || m.focusRow >= len(col) {
		return models.Card{}, false
	}
	return col[m.focusRow], true
}

// reorder swaps the selected card with its vertical neighbor and sends
// the whole column in one batched save.
func (m *Kanban) reorder(delta int) tea.Cmd {
	st, ok := m.selectedStatus()
	if !ok {
		return nil
	}
	col := m.cards[st.ID]
	other := m.focusRow + delta
	if other < 0 || other >= len(col) {
		return nil
	}
	next := make([]models.Card, len(col))
	copy(next, col)
	next[m.focusRow], next[other] = next[other], next[m.focusRow]
	for i := range next {
		next[i].Position = i
	}
	m.focusRow = other
	cards := m.ctx.Cards
	statusID := st.ID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := cards.SaveAll(ctx, statusID, next); err != nil {
			return ErrMsg{Err: err}
		}
		return bucketRefreshedMsg{}
	}
}

// moveAcross sends the selected card to the adjacent column. The save
// records the origin so both columns are reconciled afterwards.
func (m *Kanban) moveAcross(delta int) tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		return nil
	}
	destCol := m.focusCol + delta
	if destCol < 0 || destCol >= len(m.statuses) {
		return nil
	}
	dest := m.statuses[destCol]
	card.PrevStatusID = card.StatusID
	card.StatusID = dest.ID
	card.Position = len(m.cards[dest.ID])
	m.focusCol = destCol
	m.focusRow = len(m.cards[dest.ID])
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := cards.Save(ctx, card); err != nil {
			return ErrMsg{Err: err}
		}
		return bucketRefreshedMsg{}
	}
}

func (m *Kanban) toggleFinished() tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		return nil
	}
	card.Finished = !card.Finished
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := cards.Save(ctx, card); err != nil {
			return ErrMsg{Err: err}
		}
		return kanbanCardSavedMsg{}
	}
}

func (m *Kanban) updateTitlePrompt(msg tea.KeyMsg, save func(string) tea.Cmd) (*Kanban, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = kanbanModeBoard
		return m, nil
	case key.Matches(msg, k.Enter):
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.mode = kanbanModeBoard
			return m, nil
		}
		return m, save(title)
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Kanban) saveNewCard(title string) tea.Cmd {
	st, ok := m.selectedStatus()
	if !ok {
		return nil
	}
	card := models.Card{
		CardTitle: title,
		BoardID:   m.board.ID,
		StatusID:  st.ID,
		Position:  len(m.cards[st.ID]),
	}
	m.busy = true
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := cards.Save(ctx, card); err != nil {
			return ErrMsg{Err: err}
		}
		return kanbanCardSavedMsg{}
	}
}

func (m *Kanban) saveStatus(name string) tea.Cmd {
	status := models.Status{ID: m.editingStatus, Name: name, BoardID: m.board.ID}
	m.busy = true
	statuses := m.ctx.Statuses
	boardID := m.board.ID
	ctx0 := m.ctx
	return func() tea.Msg {
		ctx, cancel := ctx0.timeout()
		defer cancel()
		if err := statuses.Save(ctx, status); err != nil {
			return ErrMsg{Err: err}
		}
		if status.ID == 0 {
			// new column starts empty but needs a bucket entry
			if err := ctx0.Statuses.Load(ctx, boardID); err != nil {
				return ErrMsg{Err: err}
			}
		}
		return statusSavedMsg{}
	}
}

func (m *Kanban) updateConfirm(msg tea.KeyMsg, action func() tea.Cmd) (*Kanban, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, action()
	case "n", "N", "esc":
		m.mode = kanbanModeBoard
	}
	return m, nil
}

func (m *Kanban) deleteCard() tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		m.mode = kanbanModeBoard
		return nil
	}
	m.busy = true
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := cards.Delete(ctx, card.ID, card.BoardID, card.StatusID); err != nil {
			return ErrMsg{Err: err}
		}
		return bucketRefreshedMsg{}
	}
}

func (m *Kanban) deleteStatus() tea.Cmd {
	st, ok := m.selectedStatus()
	if !ok {
		m.mode = kanbanModeBoard
		return nil
	}
	m.busy = true
	statuses := m.ctx.Statuses
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := statuses.Delete(ctx, st.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return statusSavedMsg{}
	}
}

func (m *Kanban) View() string {
	s := m.ctx.Styles

	title := s.Title.Render(m.board.BoardName)
	if m.busy {
		title += s.TitleMuted.Render("  loading...")
	}

	switch m.mode {
	case kanbanModeNewCard, kanbanModeStatusForm:
		prompt := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			s.InputFocused.Width(min(m.width-6, 60)).Render(m.titleInput.View()),
			s.Help.Render("enter: save • esc: cancel"),
		)
		return lipgloss.NewStyle().Padding(1, 2).Render(prompt)

	case kanbanModeConfirmDeleteCard:
		return m.renderConfirm(title, "Delete this card?")
	case kanbanModeConfirmDeleteStatus:
		return m.renderConfirm(title, "Delete this column and all its cards?")
	case kanbanModeHelp:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.renderHelp()))
	}

	if len(m.statuses) == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			s.TitleMuted.Render("no columns yet, press S to create one"),
			s.Help.Render("S: new column • esc: boards"),
		)
		return lipgloss.NewStyle().Padding(1, 2).Render(empty)
	}

	colWidth := clamp(m.width/max(1, len(m.statuses))-4, 16, 36)
	columns := make([]string, 0, len(m.statuses))
	for i, st := range m.statuses {
		columns = append(columns, m.renderColumn(i, st, colWidth))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	footer := s.Help.Render("←→↑↓: navigate • HJKL: move card • enter: open • n: new card • c: chat • ?: more")
	lines := []string{title, "", board, footer}
	if m.errText != "" {
		lines = append(lines, s.Err.Render(m.errText))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Kanban) renderColumn(idx int, st models.Status, width int) string {
	s := m.ctx.Styles
	cards := m.cards[st.ID]

	header := s.ColumnHeader.Render(fmt.Sprintf("%s (%d)", st.Name, len(cards)))
	rows := []string{header}
	for i, c := range cards {
		line := c.CardTitle
		if p := models.Progress(c); p > 0 {
			line += fmt.Sprintf(" %d%%", p)
		}
		if c.Finished {
			line = s.CardFinished.Render("✓ ") + line
		}
		if c.Label != nil {
			line = s.LabelTag.Background(lipgloss.Color(c.Label.Color)).Render(" ") + line
		}
		style := s.CardBox
		if idx == m.focusCol && i == m.focusRow {
			style = s.CardBoxFocused
		}
		rows = append(rows, style.Width(width-2).Render(line))
	}
	if len(cards) == 0 {
		rows = append(rows, s.TitleMuted.Render("empty"))
	}

	colStyle := s.Column
	if idx == m.focusCol {
		colStyle = s.ColumnFocused
	}
	return colStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Kanban) renderConfirm(title, prompt string) string {
	s := m.ctx.Styles
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			s.Notice.Render(prompt),
			s.Help.Render("y: confirm • n: cancel"),
		))
}

func (m *Kanban) renderHelp() string {
	s := m.ctx.Styles
	lines := []string{
		s.HelpKey.Render("←→↑↓ / hjkl") + s.HelpDesc.Render("  navigate"),
		s.HelpKey.Render("H / L") + s.HelpDesc.Render("  move card across columns"),
		s.HelpKey.Render("J / K") + s.HelpDesc.Render("  reorder within column"),
		s.HelpKey.Render("enter") + s.HelpDesc.Render("  open card"),
		s.HelpKey.Render("n / d") + s.HelpDesc.Render("  new / delete card"),
		s.HelpKey.Render("f") + s.HelpDesc.Render("  toggle finished"),
		s.HelpKey.Render("S / E / D") + s.HelpDesc.Render("  new / rename / delete column"),
		s.HelpKey.Render("c") + s.HelpDesc.Render("  board chat"),
		s.HelpKey.Render("r") + s.HelpDesc.Render("  refresh"),
		s.HelpKey.Render("esc") + s.HelpDesc.Render("  back to boards"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
