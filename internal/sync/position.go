package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Positions synchronizes the viewer's board grid coordinates.
type Positions struct {
	api    *api.Client
	store  *store.Store
	logger *slog.Logger
}

// NewPositions builds a position synchronizer.
func NewPositions(client *api.Client, st *store.Store, logger *slog.Logger) *Positions {
	return &Positions{api: client, store: st, logger: orDefault(logger)}
}

// Update persists one or more coordinate tuples as a single batch. The
// cache is updated optimistically per tuple before the call; a failed
// call leaves the optimistic state in place (no rollback) and only the
// log records the divergence.
func (p *Positions) Update(ctx context.Context, positions ...models.UserBoardPosition) error {
	for _, pos := range positions {
		p.store.Dispatch(store.PositionUpdated{Position: pos})
	}
	if err := p.api.UpdatePositions(ctx, positions); err != nil {
		p.logger.Warn("position batch not persisted, cache keeps optimistic values",
			"count", len(positions), "err", err)
		return err
	}
	return nil
}
