// Package views contains the bubbletea models for each screen.
package views

import (
	"context"
	"log/slog"
	"time"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/localstore"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
	appsync "github.com/alvaro-cozano/organizer-cli/internal/sync"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/keys"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
)

// requestTimeout bounds every remote call issued from a view.
const requestTimeout = 15 * time.Second

// Ctx bundles the services every view needs. The app builds one and
// hands it to each view constructor.
type Ctx struct {
	API        *api.Client
	Store      *store.Store
	Auth       *appsync.Auth
	Boards     *appsync.Boards
	Cards      *appsync.Cards
	Checklists *appsync.Checklists
	Statuses   *appsync.Statuses
	Labels     *appsync.Labels
	Positions  *appsync.Positions
	Billing    *appsync.Billing
	Local      *localstore.Store
	ChatURL    string
	Styles     *styles.Styles
	Keys       keys.KeyMap
	Logger     *slog.Logger
}

func (c *Ctx) timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Navigation messages emitted by views and routed by the app.

// LoggedInMsg is sent after a successful login or token check.
type LoggedInMsg struct{ Username string }

// LoggedOutMsg is sent when the user logs out or the token is rejected.
type LoggedOutMsg struct{}

// ShowRegisterMsg switches from the login view to the register form.
type ShowRegisterMsg struct{}

// ShowLoginMsg switches back to the login view.
type ShowLoginMsg struct{}

// BoardSelectedMsg opens the kanban view for a board.
type BoardSelectedMsg struct{ Board models.Board }

// CardSelectedMsg opens the card detail view.
type CardSelectedMsg struct{ Card models.Card }

// OpenChatMsg opens the chat view for a board.
type OpenChatMsg struct{ Board models.Board }

// OpenAgendaMsg opens the agenda view.
type OpenAgendaMsg struct{}

// OpenProfileMsg opens the profile view.
type OpenProfileMsg struct{}

// BackMsg returns to the previous view.
type BackMsg struct{}

// ErrMsg carries a failed operation's error into the active view.
type ErrMsg struct{ Err error }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
