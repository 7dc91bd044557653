package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

type cardMode int

const (
	cardModeView cardMode = iota
	cardModeEdit
	cardModeNewItem
	cardModeNewSub
	cardModeLabels
	cardModeConfirmDelete
)

const cardFieldCount = 6 // title, description, start, end, priority, links

// dateLayouts are the formats accepted when editing card dates.
var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

// cardRow is one line of the checklist tree: an item, or one of its
// sub-items when sub is non-nil.
type cardRow struct {
	item models.ChecklistItem
	sub  *models.ChecklistSubItem
}

// CardDetail shows and edits a single card.
type CardDetail struct {
	ctx  *Ctx
	card models.Card

	items  []models.ChecklistItem
	rows   []cardRow
	cursor int

	mode    cardMode
	busy    bool
	errText string

	inputs    []textinput.Model
	formFocus int

	prompt textinput.Model

	labels      []models.Label
	labelCursor int

	width  int
	height int
}

type checklistLoadedMsg struct{}
type checklistChangedMsg struct{}
type detailCardSavedMsg struct{}
type labelsChangedMsg struct{}

// NewCardDetail creates the detail view for one card.
func NewCardDetail(ctx *Ctx, card models.Card) *CardDetail {
	inputs := make([]textinput.Model, cardFieldCount)
	placeholders := []string{"title", "description", "start (yyyy-mm-dd hh:mm)", "end (yyyy-mm-dd hh:mm)", "priority (0-5)", "links"}
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 400
		inputs[i] = in
	}
	prompt := textinput.New()
	prompt.CharLimit = 200

	return &CardDetail{ctx: ctx, card: card, inputs: inputs, prompt: prompt}
}

func (m *CardDetail) Init() tea.Cmd {
	return m.loadChecklist()
}

func (m *CardDetail) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *CardDetail) loadChecklist() tea.Cmd {
	m.busy = true
	checklists := m.ctx.Checklists
	cardID := m.card.ID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := checklists.LoadByCard(ctx, cardID); err != nil {
			return ErrMsg{Err: err}
		}
		return checklistLoadedMsg{}
	}
}

func (m *CardDetail) refresh() {
	if c, ok := m.ctx.Store.Card(m.card.ID); ok {
		m.card = c
	}
	m.items = m.ctx.Store.ChecklistItemsByCard(m.card.ID)
	m.rows = m.rows[:0]
	for _, item := range m.items {
		m.rows = append(m.rows, cardRow{item: item})
		for i := range item.SubItems {
			sub := item.SubItems[i]
			m.rows = append(m.rows, cardRow{item: item, sub: &sub})
		}
	}
	if len(m.rows) == 0 {
		m.cursor = 0
	} else {
		m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	}
	m.labels = m.ctx.Store.LabelsByBoard(m.card.BoardID)
}

func (m *CardDetail) Update(msg tea.Msg) (*CardDetail, tea.Cmd) {
	switch msg := msg.(type) {
	case checklistLoadedMsg, checklistChangedMsg, detailCardSavedMsg, labelsChangedMsg:
		m.busy = false
		if m.mode != cardModeLabels || msgIs[detailCardSavedMsg](msg) {
			m.mode = cardModeView
		}
		m.refresh()
		return m, nil

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "card operation failed")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case cardModeEdit:
			return m.updateEdit(msg)
		case cardModeNewItem, cardModeNewSub:
			return m.updatePrompt(msg)
		case cardModeLabels:
			return m.updateLabels(msg)
		case cardModeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateView(msg)
		}
	}
	return m, nil
}

// msgIs reports whether msg has the concrete type T.
func msgIs[T any](msg tea.Msg) bool {
	_, ok := msg.(T)
	return ok
}

func (m *CardDetail) updateView(msg tea.KeyMsg) (*CardDetail, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, k.Up):
		m.cursor = clamp(m.cursor-1, 0, max(0, len(m.rows)-1))
	case key.Matches(msg, k.Down):
		m.cursor = clamp(m.cursor+1, 0, max(0, len(m.rows)-1))

	case key.Matches(msg, k.Toggle):
		return m, m.toggleRow()

	case key.Matches(msg, k.Edit):
		m.startEdit()

	case key.Matches(msg, k.New):
		m.prompt.Placeholder = "checklist item"
		m.prompt.SetValue("")
		m.prompt.Focus()
		m.mode = cardModeNewItem

	case msg.String() == "N":
		if _, ok := m.selectedRow(); ok {
			m.prompt.Placeholder = "sub-item"
			m.prompt.SetValue("")
			m.prompt.Focus()
			m.mode = cardModeNewSub
		}

	case key.Matches(msg, k.Delete):
		if _, ok := m.selectedRow(); ok {
			m.mode = cardModeConfirmDelete
		}

	case msg.String() == "l":
		m.labelCursor = 0
		m.mode = cardModeLabels

	case msg.String() == "f":
		card := m.card
		card.Finished = !card.Finished
		return m, m.saveCard(card)

	case key.Matches(msg, k.Refresh):
		return m, m.loadChecklist()
	}
	return m, nil
}

func (m *CardDetail) selectedRow() (cardRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return cardRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *CardDetail) toggleRow() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return nil
	}
	m.busy = true
	checklists := m.ctx.Checklists
	card := m.card
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		var err error
		if row.sub != nil {
			_, err = checklists.ToggleSubItem(ctx, card, row.item, *row.sub)
		} else {
			_, err = checklists.ToggleItem(ctx, card, row.item)
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return checklistChangedMsg{}
	}
}

func (m *CardDetail) startEdit() {
	m.inputs[0].SetValue(m.card.CardTitle)
	m.inputs[1].SetValue(m.card.Description)
	m.inputs[2].SetValue(formatDate(m.card.StartDate))
	m.inputs[3].SetValue(formatDate(m.card.EndDate))
	m.inputs[4].SetValue(fmt.Sprintf("%d", m.card.Priority))
	m.inputs[5].SetValue(m.card.AttachedLinks)
	m.formFocus = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[0].Focus()
	m.errText = ""
	m.mode = cardModeEdit
}

func (m *CardDetail) updateEdit(msg tea.KeyMsg) (*CardDetail, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = cardModeView
		return m, nil

	case key.Matches(msg, k.Tab):
		m.formFocus = (m.formFocus + 1) % cardFieldCount
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

func (m *CardDetail) saveEdit() tea.Cmd {
	card := m.card
	card.CardTitle = strings.TrimSpace(m.inputs[0].Value())
	if card.CardTitle == "" {
		m.errText = "title is required"
		return nil
	}
	card.Description = m.inputs[1].Value()
	card.AttachedLinks = m.inputs[5].Value()

	var err error
	if card.StartDate, err = parseDate(m.inputs[2].Value()); err != nil {
		m.errText = "start date: use yyyy-mm-dd [hh:mm]"
		return nil
	}
	if card.EndDate, err = parseDate(m.inputs[3].Value()); err != nil {
		m.errText = "end date: use yyyy-mm-dd [hh:mm]"
		return nil
	}
	if _, err = fmt.Sscanf(m.inputs[4].Value(), "%d", &card.Priority); err != nil {
		card.Priority = 0
	}
	return m.saveCard(card)
}

func (m *CardDetail) saveCard(card models.Card) tea.Cmd {
	m.busy = true
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := cards.Save(ctx, card); err != nil {
			return ErrMsg{Err: err}
		}
		return detailCardSavedMsg{}
	}
}

func (m *CardDetail) updatePrompt(msg tea.KeyMsg) (*CardDetail, tea.Cmd) {
	k := m.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		m.mode = cardModeView
		return m, nil

	case key.Matches(msg, k.Enter):
		text := strings.TrimSpace(m.prompt.Value())
		if text == "" {
			m.mode = cardModeView
			return m, nil
		}
		if m.mode == cardModeNewItem {
			return m, m.addItem(text)
		}
		return m, m.addSubItem(text)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *CardDetail) addItem(title string) tea.Cmd {
	m.busy = true
	checklists := m.ctx.Checklists
	cardID := m.card.ID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := checklists.SaveItem(ctx, cardID, models.ChecklistItem{Title: title, CardID: cardID}); err != nil {
			return ErrMsg{Err: err}
		}
		return checklistChangedMsg{}
	}
}

func (m *CardDetail) addSubItem(content string) tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		m.mode = cardModeView
		return nil
	}
	m.busy = true
	checklists := m.ctx.Checklists
	itemID := row.item.ID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		sub := models.ChecklistSubItem{Content: content, ChecklistItemID: itemID}
		if _, err := checklists.SaveSubItem(ctx, itemID, sub); err != nil {
			return ErrMsg{Err: err}
		}
		return checklistChangedMsg{}
	}
}

func (m *CardDetail) updateConfirm(msg tea.KeyMsg) (*CardDetail, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteRow()
	case "n", "N", "esc":
		m.mode = cardModeView
	}
	return m, nil
}

func (m *CardDetail) deleteRow() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		m.mode = cardModeView
		return nil
	}
	m.busy = true
	checklists := m.ctx.Checklists
	cardID := m.card.ID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		var err error
		if row.sub != nil {
			err = checklists.DeleteSubItem(ctx, row.sub.ID, row.item.ID)
		} else {
			err = checklists.DeleteItem(ctx, row.item.ID, cardID)
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return checklistChangedMsg{}
	}
}

func (m *CardDetail) updateLabels(msg tea.KeyMsg) (*CardDetail, tea.Cmd) {
	k := m.ctx.Keys

	if m.prompt.Focused() {
		switch {
		case key.Matches(msg, k.Back):
			m.prompt.Blur()
			return m, nil
		case key.Matches(msg, k.Enter):
			return m, m.createLabel()
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	// row 0 is "no label", rows 1..n are the board's labels
	total := len(m.labels) + 1
	switch {
	case key.Matches(msg, k.Back):
		m.mode = cardModeView

	case key.Matches(msg, k.Up):
		m.labelCursor = clamp(m.labelCursor-1, 0, total-1)
	case key.Matches(msg, k.Down):
		m.labelCursor = clamp(m.labelCursor+1, 0, total-1)

	case key.Matches(msg, k.Enter):
		card := m.card
		if m.labelCursor == 0 {
			card.Label = nil
		} else {
			label := m.labels[m.labelCursor-1]
			card.Label = &label
		}
		return m, m.saveCard(card)

	case key.Matches(msg, k.New):
		m.prompt.Placeholder = "label title #color"
		m.prompt.SetValue("")
		m.prompt.Focus()

	case key.Matches(msg, k.Delete):
		if m.labelCursor > 0 {
			return m, m.deleteLabel(m.labels[m.labelCursor-1].ID)
		}
	}
	return m, nil
}

func (m *CardDetail) createLabel() tea.Cmd {
	text := strings.TrimSpace(m.prompt.Value())
	m.prompt.Blur()
	if text == "" {
		return nil
	}
	title, color := text, "#7aa2f7"
	if i := strings.LastIndex(text, "#"); i > 0 {
		title = strings.TrimSpace(text[:i])
		color = text[i:]
	}
	m.busy = true
	labels := m.ctx.Labels
	boardID := m.card.BoardID
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if _, err := labels.Save(ctx, models.Label{Title: title, Color: color, BoardID: boardID}); err != nil {
			return ErrMsg{Err: err}
		}
		return labelsChangedMsg{}
	}
}

func (m *CardDetail) deleteLabel(labelID int64) tea.Cmd {
	m.busy = true
	labels := m.ctx.Labels
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := labels.Delete(ctx, labelID); err != nil {
			return ErrMsg{Err: err}
		}
		return labelsChangedMsg{}
	}
}

func (m *CardDetail) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	header := s.Title.Render(m.card.CardTitle)
	if m.card.Finished {
		header = s.CardFinished.Render("✓ ") + header
	}
	if m.busy {
		header += s.TitleMuted.Render("  working...")
	}

	rows := []string{header}

	switch m.mode {
	case cardModeEdit:
		rows = append(rows, "", s.ColumnHeader.Render("Edit card"))
		for i := range m.inputs {
			style := s.Input
			if m.formFocus == i {
				style = s.InputFocused
			}
			rows = append(rows, style.Width(w-8).Render(m.inputs[i].View()))
		}
		rows = append(rows, s.Help.Render("tab: next field • ctrl+s: save • esc: cancel"))

	case cardModeNewItem, cardModeNewSub:
		rows = append(rows, "",
			s.InputFocused.Width(w-8).Render(m.prompt.View()),
			s.Help.Render("enter: add • esc: cancel"))

	case cardModeConfirmDelete:
		rows = append(rows, "",
			s.Notice.Render("Delete this entry?"),
			s.Help.Render("y: confirm • n: cancel"))

	case cardModeLabels:
		rows = append(rows, "", s.ColumnHeader.Render("Label"))
		rows = append(rows, m.labelRow(0, "none", ""))
		for i, l := range m.labels {
			rows = append(rows, m.labelRow(i+1, l.Title, l.Color))
		}
		if m.prompt.Focused() {
			rows = append(rows, s.InputFocused.Width(w-8).Render(m.prompt.View()))
		}
		rows = append(rows, s.Help.Render("enter: assign • n: new label • d: delete label • esc: back"))

	default:
		rows = append(rows, m.renderSummary(w), "", s.ColumnHeader.Render(
			fmt.Sprintf("Checklist · %d%%", models.Progress(m.card))))
		if len(m.rows) == 0 {
			rows = append(rows, s.TitleMuted.Render("no checklist, press n to add an item"))
		}
		for i, row := range m.rows {
			rows = append(rows, m.checklistRow(i, row))
		}
		rows = append(rows, "", s.Help.Render("space: toggle • n/N: item/sub-item • e: edit • l: label • f: finish • esc: back"))
	}

	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}

func (m *CardDetail) renderSummary(w int) string {
	s := m.ctx.Styles
	lines := []string{}
	if m.card.Description != "" {
		lines = append(lines, s.ChatBody.Width(w-8).Render(m.card.Description))
	}
	meta := []string{}
	if !m.card.StartDate.IsZero() {
		meta = append(meta, "start "+formatDate(m.card.StartDate))
	}
	if !m.card.EndDate.IsZero() {
		meta = append(meta, "due "+formatDate(m.card.EndDate))
	}
	if m.card.Priority > 0 {
		meta = append(meta, fmt.Sprintf("priority %d", m.card.Priority))
	}
	if m.card.Label != nil {
		meta = append(meta, s.LabelTag.Background(lipgloss.Color(m.card.Label.Color)).Render(m.card.Label.Title))
	}
	if len(meta) > 0 {
		lines = append(lines, s.TitleMuted.Render(strings.Join(meta, " · ")))
	}
	if m.card.AttachedLinks != "" {
		lines = append(lines, s.TitleMuted.Render(m.card.AttachedLinks))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *CardDetail) checklistRow(idx int, row cardRow) string {
	s := m.ctx.Styles
	var line string
	if row.sub != nil {
		mark := "[ ]"
		if row.sub.Done {
			mark = "[x]"
		}
		line = "    " + mark + " " + row.sub.Content
	} else {
		mark := "[ ]"
		if models.ItemCompleted(row.item) {
			mark = "[x]"
		}
		line = mark + " " + row.item.Title
	}
	if idx == m.cursor {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func (m *CardDetail) labelRow(idx int, title, color string) string {
	s := m.ctx.Styles
	line := title
	if color != "" {
		line = s.LabelTag.Background(lipgloss.Color(color)).Render(" ") + title
	}
	if idx == m.labelCursor {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func formatDate(t models.WireTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func parseDate(s string) (models.WireTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.WireTime{}, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return models.NewWireTime(t), nil
		}
		lastErr = err
	}
	return models.WireTime{}, lastErr
}
