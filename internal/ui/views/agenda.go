package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

// Agenda shows every card assigned to the viewer, grouped by due date,
// one month at a time.
type Agenda struct {
	ctx *Ctx

	month   time.Time // first day of the displayed month
	days    []agendaDay
	cursor  int
	busy    bool
	errText string

	width  int
	height int
}

type agendaDay struct {
	date  time.Time
	cards []models.Card
}

type agendaLoadedMsg struct{}

// NewAgenda creates the agenda view anchored to the current month.
func NewAgenda(ctx *Ctx) *Agenda {
	now := time.Now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return &Agenda{ctx: ctx, month: month}
}

func (m *Agenda) Init() tea.Cmd {
	return m.load()
}

func (m *Agenda) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Agenda) load() tea.Cmd {
	m.busy = true
	cards := m.ctx.Cards
	return func() tea.Msg {
		ctx, cancel := m.ctx.timeout()
		defer cancel()
		if err := cards.LoadMine(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return agendaLoadedMsg{}
	}
}

// refresh rebuilds the day groups for the displayed month from the cache.
func (m *Agenda) refresh() {
	byDay := map[time.Time][]models.Card{}
	next := m.month.AddDate(0, 1, 0)
	for _, c := range m.ctx.Store.Cards() {
		if c.EndDate.IsZero() {
			continue
		}
		due := c.EndDate.Time
		if due.Before(m.month) || !due.Before(next) {
			continue
		}
		day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
		byDay[day] = append(byDay[day], c)
	}

	m.days = m.days[:0]
	for day, cards := range byDay {
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].EndDate.Before(cards[j].EndDate.Time)
		})
		m.days = append(m.days, agendaDay{date: day, cards: cards})
	}
	sort.Slice(m.days, func(i, j int) bool { return m.days[i].date.Before(m.days[j].date) })
	if len(m.days) == 0 {
		m.cursor = 0
	} else {
		m.cursor = clamp(m.cursor, 0, len(m.days)-1)
	}
}

func (m *Agenda) Update(msg tea.Msg) (*Agenda, tea.Cmd) {
	switch msg := msg.(type) {
	case agendaLoadedMsg:
		m.busy = false
		m.refresh()
		return m, nil

	case ErrMsg:
		m.busy = false
		m.errText = api.ErrorMessage(msg.Err, "agenda unavailable")
		return m, nil

	case tea.KeyMsg:
		k := m.ctx.Keys
		switch {
		case key.Matches(msg, k.Back), key.Matches(msg, k.Boards):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, k.Up):
			m.cursor = clamp(m.cursor-1, 0, max(0, len(m.days)-1))
		case key.Matches(msg, k.Down):
			m.cursor = clamp(m.cursor+1, 0, max(0, len(m.days)-1))

		case key.Matches(msg, k.Left):
			m.month = m.month.AddDate(0, -1, 0)
			m.cursor = 0
			m.refresh()
		case key.Matches(msg, k.Right):
			m.month = m.month.AddDate(0, 1, 0)
			m.cursor = 0
			m.refresh()

		case key.Matches(msg, k.Refresh):
			return m, m.load()
		}
	}
	return m, nil
}

func (m *Agenda) View() string {
	s := m.ctx.Styles
	w := styles.ContentWidth(m.width)

	title := s.Title.Render("Agenda") + s.TitleMuted.Render("  "+m.month.Format("January 2006"))
	if m.busy {
		title += s.TitleMuted.Render("  loading...")
	}
	rows := []string{title, ""}

	if len(m.days) == 0 && !m.busy {
		rows = append(rows, s.TitleMuted.Render("nothing due this month"))
	}
	for i, day := range m.days {
		heading := day.date.Format("Mon Jan 2")
		if i == m.cursor {
			rows = append(rows, s.ListSelected.Render(heading))
		} else {
			rows = append(rows, s.ColumnHeader.Render(heading))
		}
		for _, c := range day.cards {
			line := fmt.Sprintf("  %s · %s", c.EndDate.Format("15:04"), c.CardTitle)
			if c.Finished {
				line = s.CardFinished.Render("✓") + line
			}
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	rows = append(rows, "", s.Help.Render("←/→: month • ↑/↓: day • r: refresh • esc: boards"))
	if m.errText != "" {
		rows = append(rows, s.Err.Render(m.errText))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	box := lipgloss.NewStyle().Padding(1, 2).Width(w).Render(content)
	return styles.CenterView(box, m.width, m.height)
}
