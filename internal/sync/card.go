package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Cards synchronizes cards and their per-status buckets.
type Cards struct {
	api    *api.Client
	store  *store.Store
	logger *slog.Logger
	guard  guard
}

// NewCards builds a card synchronizer.
func NewCards(client *api.Client, st *store.Store, logger *slog.Logger) *Cards {
	return &Cards{api: client, store: st, logger: orDefault(logger)}
}

// Save creates or updates by identifier presence and reconciles the
// flat list and status bucket from the response. When the save moved
// the card between statuses, both the origin and destination buckets
// are refreshed here; the refresh set is part of the mutation, not
// caller discipline.
//
// Overlapping edits of one card are fenced: if a newer Save began while
// this one was in flight, the stale response is dropped.
func (c *Cards) Save(ctx context.Context, card models.Card) (models.Card, error) {
	var gen uint64
	if card.ID != 0 {
		gen = c.guard.begin(card.ID)
	}

	var saved *models.Card
	var err error
	if card.ID != 0 {
		saved, err = c.api.UpdateCard(ctx, card)
	} else {
		saved, err = c.api.CreateCard(ctx, card)
	}
	if err != nil {
		return models.Card{}, err
	}

	if card.ID != 0 && c.guard.stale(card.ID, gen) {
		c.logger.Debug("dropping stale card response", "card_id", card.ID)
		return *saved, nil
	}

	c.store.Dispatch(store.CardUpserted{Card: *saved})

	if saved.PrevStatusID != 0 && saved.PrevStatusID != saved.StatusID {
		if err := c.LoadByBoardAndStatus(ctx, saved.BoardID, saved.PrevStatusID); err != nil {
			return *saved, err
		}
		if err := c.LoadByBoardAndStatus(ctx, saved.BoardID, saved.StatusID); err != nil {
			return *saved, err
		}
	}
	return *saved, nil
}

// SaveAll persists a whole repositioned bucket in one batched call and
// replaces the destination bucket with the response order. Cards that
// arrived from another status additionally refresh their origin bucket.
// A plain in-column reorder therefore costs exactly one request.
func (c *Cards) SaveAll(ctx context.Context, statusID int64, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	updated, err := c.api.UpdateCards(ctx, cards)
	if err != nil {
		return err
	}
	c.store.Dispatch(
		store.CardsUpserted{Cards: updated},
		store.BucketLoaded{StatusID: statusID, Cards: updated},
	)

	refreshed := map[int64]bool{statusID: true}
	for _, card := range updated {
		if card.PrevStatusID == 0 || refreshed[card.PrevStatusID] {
			continue
		}
		refreshed[card.PrevStatusID] = true
		if err := c.LoadByBoardAndStatus(ctx, card.BoardID, card.PrevStatusID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a card remotely, drops it from the flat list and every
// bucket, then reloads the bucket that held it so positions are
// recomputed server-side.
func (c *Cards) Delete(ctx context.Context, cardID, boardID, statusID int64) error {
	if err := c.api.DeleteCard(ctx, cardID); err != nil {
		return err
	}
	c.store.Dispatch(store.CardRemoved{ID: cardID})
	return c.LoadByBoardAndStatus(ctx, boardID, statusID)
}

// LoadByBoardAndStatus replaces one status bucket with the server's
// ordering. This is the unit of cache invalidation for cards.
func (c *Cards) LoadByBoardAndStatus(ctx context.Context, boardID, statusID int64) error {
	cards, err := c.api.CardsByBoardAndStatus(ctx, boardID, statusID)
	if err != nil {
		return err
	}
	c.store.Dispatch(store.BucketLoaded{StatusID: statusID, Cards: cards})
	return nil
}

// LoadMine replaces the flat list with the viewer's cards across
// boards (calendar and agenda views).
func (c *Cards) LoadMine(ctx context.Context) error {
	cards, err := c.api.MyCards(ctx)
	if err != nil {
		return err
	}
	c.store.Dispatch(store.CardsLoaded{Cards: cards})
	return nil
}
