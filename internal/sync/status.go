package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Statuses synchronizes a board's columns.
type Statuses struct {
	api    *api.Client
	store  *store.Store
	logger *slog.Logger
}

// NewStatuses builds a status synchronizer.
func NewStatuses(client *api.Client, st *store.Store, logger *slog.Logger) *Statuses {
	return &Statuses{api: client, store: st, logger: orDefault(logger)}
}

// Load replaces the status collection with the board's columns in the
// server's display order.
func (s *Statuses) Load(ctx context.Context, boardID int64) error {
	statuses, err := s.api.StatusesByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	s.store.Dispatch(store.StatusesLoaded{Statuses: statuses})
	return nil
}

// Save creates or updates by identifier presence.
func (s *Statuses) Save(ctx context.Context, status models.Status) error {
	if status.ID != 0 {
		updated, err := s.api.UpdateStatus(ctx, status)
		if err != nil {
			return err
		}
		s.store.Dispatch(store.StatusUpdated{Status: *updated})
		return nil
	}
	created, err := s.api.CreateStatus(ctx, status)
	if err != nil {
		return err
	}
	s.store.Dispatch(store.StatusAdded{Status: *created})
	return nil
}

// Delete removes a column remotely, then locally together with its
// cached bucket.
func (s *Statuses) Delete(ctx context.Context, statusID int64) error {
	if err := s.api.DeleteStatus(ctx, statusID); err != nil {
		return err
	}
	s.store.Dispatch(store.StatusRemoved{ID: statusID})
	return nil
}
