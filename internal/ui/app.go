// Package ui wires the individual views into one program model.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvaro-cozano/organizer-cli/internal/session"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/views"
)

type viewID int

const (
	viewLogin viewID = iota
	viewRegister
	viewBoards
	viewKanban
	viewCard
	viewChat
	viewAgenda
	viewProfile
)

// lastView values persisted between runs.
const (
	lastViewBoards = "boards"
	lastViewAgenda = "agenda"
)

// App is the root bubbletea model. It owns the active view and routes
// navigation messages between views.
type App struct {
	ctx    *views.Ctx
	active viewID

	login    *views.Login
	register *views.Register
	boards   *views.Boards
	kanban   *views.Kanban
	card     *views.CardDetail
	chat     *views.Chat
	agenda   *views.Agenda
	profile  *views.Profile

	width  int
	height int
}

// NewApp builds the root model. The initial view depends on the stored
// token: a plausible token is validated against the server first.
func NewApp(ctx *views.Ctx) *App {
	app := &App{ctx: ctx, active: viewLogin}
	app.login = views.NewLogin(ctx)
	return app
}

func (a *App) Init() tea.Cmd {
	if session.TokenState(a.ctx.Local.Token()) == session.Checking {
		auth := a.ctx.Auth
		return tea.Batch(a.login.Init(), func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			username, err := auth.CheckToken(ctx)
			if err != nil {
				return views.LoggedOutMsg{}
			}
			return views.LoggedInMsg{Username: username}
		})
	}
	return a.login.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resizeAll()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeChat()
			return a, tea.Quit
		}

	case views.LoggedInMsg:
		return a.afterLogin()

	case views.LoggedOutMsg:
		a.closeChat()
		a.login = views.NewLogin(a.ctx)
		a.register, a.boards, a.kanban, a.card, a.chat, a.agenda, a.profile = nil, nil, nil, nil, nil, nil, nil
		a.active = viewLogin
		a.resizeAll()
		return a, a.login.Init()

	case views.ShowRegisterMsg:
		a.register = views.NewRegister(a.ctx)
		a.active = viewRegister
		a.resizeAll()
		return a, a.register.Init()

	case views.ShowLoginMsg:
		a.login = views.NewLogin(a.ctx)
		a.active = viewLogin
		a.resizeAll()
		return a, a.login.Init()

	case views.BoardSelectedMsg:
		a.kanban = views.NewKanban(a.ctx, msg.Board)
		a.active = viewKanban
		a.resizeAll()
		return a, a.kanban.Init()

	case views.CardSelectedMsg:
		a.card = views.NewCardDetail(a.ctx, msg.Card)
		a.active = viewCard
		a.resizeAll()
		return a, a.card.Init()

	case views.OpenChatMsg:
		a.chat = views.NewChat(a.ctx, msg.Board)
		a.active = viewChat
		a.resizeAll()
		return a, a.chat.Init()

	case views.OpenAgendaMsg:
		if err := a.ctx.Local.SetLastView(lastViewAgenda); err != nil {
			a.ctx.Logger.Warn("persisting last view", "err", err)
		}
		a.agenda = views.NewAgenda(a.ctx)
		a.active = viewAgenda
		a.resizeAll()
		return a, a.agenda.Init()

	case views.OpenProfileMsg:
		a.profile = views.NewProfile(a.ctx)
		a.active = viewProfile
		a.resizeAll()
		return a, a.profile.Init()

	case views.BackMsg:
		return a.goBack()
	}

	return a.updateActive(msg)
}

// afterLogin opens the boards list, or the agenda when it was the last
// used view.
func (a *App) afterLogin() (tea.Model, tea.Cmd) {
	a.boards = views.NewBoards(a.ctx)
	if a.ctx.Local.LastView() == lastViewAgenda {
		a.agenda = views.NewAgenda(a.ctx)
		a.active = viewAgenda
		a.resizeAll()
		return a, tea.Batch(a.boards.Init(), a.agenda.Init())
	}
	a.active = viewBoards
	a.resizeAll()
	return a, a.boards.Init()
}

// goBack routes esc to the parent view of the active one.
func (a *App) goBack() (tea.Model, tea.Cmd) {
	switch a.active {
	case viewCard:
		a.active = viewKanban
		if a.kanban != nil {
			return a, a.kanban.Init()
		}
	case viewChat:
		a.closeChat()
		a.active = viewKanban
		if a.kanban == nil {
			break
		}
		return a, nil
	case viewKanban, viewAgenda, viewProfile:
		if a.active == viewAgenda || a.active == viewProfile {
			if err := a.ctx.Local.SetLastView(lastViewBoards); err != nil {
				a.ctx.Logger.Warn("persisting last view", "err", err)
			}
		}
		a.active = viewBoards
		if a.boards == nil {
			a.boards = views.NewBoards(a.ctx)
			a.resizeAll()
			return a, a.boards.Init()
		}
		return a, nil
	}
	a.active = viewBoards
	if a.boards == nil {
		a.boards = views.NewBoards(a.ctx)
		a.resizeAll()
		return a, a.boards.Init()
	}
	return a, nil
}

func (a *App) closeChat() {
	if a.chat != nil {
		a.chat.Close()
		a.chat = nil
	}
}

func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewBoards:
		a.boards, cmd = a.boards.Update(msg)
	case viewKanban:
		a.kanban, cmd = a.kanban.Update(msg)
	case viewCard:
		a.card, cmd = a.card.Update(msg)
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	case viewAgenda:
		a.agenda, cmd = a.agenda.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a *App) resizeAll() {
	if a.login != nil {
		a.login.SetSize(a.width, a.height)
	}
	if a.register != nil {
		a.register.SetSize(a.width, a.height)
	}
	if a.boards != nil {
		a.boards.SetSize(a.width, a.height)
	}
	if a.kanban != nil {
		a.kanban.SetSize(a.width, a.height)
	}
	if a.card != nil {
		a.card.SetSize(a.width, a.height)
	}
	if a.chat != nil {
		a.chat.SetSize(a.width, a.height)
	}
	if a.agenda != nil {
		a.agenda.SetSize(a.width, a.height)
	}
	if a.profile != nil {
		a.profile.SetSize(a.width, a.height)
	}
}

func (a *App) View() string {
	switch a.active {
	case viewRegister:
		return a.register.View()
	case viewBoards:
		return a.boards.View()
	case viewKanban:
		return a.kanban.View()
	case viewCard:
		return a.card.View()
	case viewChat:
		return a.chat.View()
	case viewAgenda:
		return a.agenda.View()
	case viewProfile:
		return a.profile.View()
	default:
		return a.login.View()
	}
}
