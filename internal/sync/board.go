package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Boards synchronizes the board collection with the server.
type Boards struct {
	api    *api.Client
	store  *store.Store
	logger *slog.Logger
}

// NewBoards builds a board synchronizer.
func NewBoards(client *api.Client, st *store.Store, logger *slog.Logger) *Boards {
	return &Boards{api: client, store: st, logger: orDefault(logger)}
}

// Load replaces the local board collection with the server's. Full
// replace, not merge: the last successful fetch wins.
func (b *Boards) Load(ctx context.Context) error {
	boards, err := b.api.MyBoards(ctx)
	if err != nil {
		return err
	}
	b.store.Dispatch(store.BoardsLoaded{Boards: boards})
	return nil
}

// Save creates or updates depending on the identifier: zero is the
// sentinel for "unsaved". On update, the cached membership reference is
// merged into the outgoing payload; the edit form does not carry it,
// and sending it empty would wipe the viewer's grid position and admin
// flag. Either path ends with a full reload.
func (b *Boards) Save(ctx context.Context, board models.Board) error {
	if board.ID != 0 {
		if cached, ok := b.store.Board(board.ID); ok {
			board.Membership = cached.Membership
		}
		if err := b.api.UpdateBoard(ctx, board); err != nil {
			return err
		}
		b.store.Dispatch(store.BoardUpdated{Board: board})
	} else {
		created, err := b.api.CreateBoard(ctx, api.CreateBoardRequest{
			BoardName: board.BoardName,
			Users:     board.Users,
		})
		if err != nil {
			return err
		}
		b.store.Dispatch(store.BoardAdded{Board: *created})
	}
	return b.Load(ctx)
}

// Delete removes a board remotely, then locally. Membership cascade is
// server-side.
func (b *Boards) Delete(ctx context.Context, boardID int64) error {
	if err := b.api.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	b.store.Dispatch(store.BoardRemoved{ID: boardID})
	return nil
}

// Leave drops the viewer's membership. The board is removed from the
// local collection immediately on success, then the collection is
// reloaded.
func (b *Boards) Leave(ctx context.Context, boardID int64) error {
	if err := b.api.LeaveBoard(ctx, boardID); err != nil {
		return err
	}
	b.store.Dispatch(store.BoardRemoved{ID: boardID})
	return b.Load(ctx)
}

// TransferAdmin hands administration to another member, then reloads so
// the viewer's membership reference reflects the change.
func (b *Boards) TransferAdmin(ctx context.Context, boardID int64, email string) error {
	if err := b.api.TransferAdmin(ctx, boardID, email); err != nil {
		return err
	}
	return b.Load(ctx)
}
