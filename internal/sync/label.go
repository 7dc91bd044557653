package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Labels synchronizes a board's labels. Assigning a label to a card is
// card territory (card save carries the label); this type only manages
// the label collection itself.
type Labels struct {
	api    *api.Client
	store  *store.Store
	logger *slog.Logger
}

// NewLabels builds a label synchronizer.
func NewLabels(client *api.Client, st *store.Store, logger *slog.Logger) *Labels {
	return &Labels{api: client, store: st, logger: orDefault(logger)}
}

// Load replaces one board's label collection.
func (l *Labels) Load(ctx context.Context, boardID int64) error {
	labels, err := l.api.LabelsByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	l.store.Dispatch(store.LabelsLoaded{BoardID: boardID, Labels: labels})
	return nil
}

// Save creates or updates by identifier presence.
func (l *Labels) Save(ctx context.Context, label models.Label) (models.Label, error) {
	if label.ID != 0 {
		updated, err := l.api.UpdateLabel(ctx, label)
		if err != nil {
			return models.Label{}, err
		}
		l.store.Dispatch(store.LabelUpdated{Label: *updated})
		return *updated, nil
	}
	created, err := l.api.CreateLabel(ctx, label)
	if err != nil {
		return models.Label{}, err
	}
	l.store.Dispatch(store.LabelAdded{Label: *created})
	return *created, nil
}

// Delete removes a label remotely, then from every cached board
// collection.
func (l *Labels) Delete(ctx context.Context, labelID int64) error {
	if err := l.api.DeleteLabel(ctx, labelID); err != nil {
		return err
	}
	l.store.Dispatch(store.LabelRemoved{ID: labelID})
	return nil
}
