package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// Checklists synchronizes checklist items and sub-items, and owns the
// derived-flag propagation: the completed and finished flags are kept
// consistent by this client, not by the server.
type Checklists struct {
	api    *api.Client
	store  *store.Store
	cards  *Cards
	logger *slog.Logger
}

// NewChecklists builds a checklist synchronizer. cards is used to
// persist a card whose finished flag flipped as a consequence of a
// checklist change.
func NewChecklists(client *api.Client, st *store.Store, cards *Cards, logger *slog.Logger) *Checklists {
	return &Checklists{api: client, store: st, cards: cards, logger: orDefault(logger)}
}

// LoadByCard replaces a card's checklist bucket.
func (c *Checklists) LoadByCard(ctx context.Context, cardID int64) error {
	items, err := c.api.ChecklistItemsByCard(ctx, cardID)
	if err != nil {
		return err
	}
	c.store.Dispatch(store.ChecklistItemsLoaded{CardID: cardID, Items: items})
	for _, item := range items {
		if item.SubItems != nil {
			c.store.Dispatch(store.SubItemsLoaded{ChecklistItemID: item.ID, SubItems: item.SubItems})
		}
	}
	return nil
}

// SaveItem creates or updates by identifier presence, scoped to the
// parent card.
func (c *Checklists) SaveItem(ctx context.Context, cardID int64, item models.ChecklistItem) (models.ChecklistItem, error) {
	var saved *models.ChecklistItem
	var err error
	if item.ID != 0 {
		saved, err = c.api.UpdateChecklistItem(ctx, item)
	} else {
		saved, err = c.api.CreateChecklistItem(ctx, cardID, item)
	}
	if err != nil {
		return models.ChecklistItem{}, err
	}
	c.store.Dispatch(store.ChecklistItemUpserted{Item: *saved})
	return *saved, nil
}

// DeleteItem removes an item from the server, the flat collection, and
// the per-card bucket.
func (c *Checklists) DeleteItem(ctx context.Context, itemID, cardID int64) error {
	if err := c.api.DeleteChecklistItem(ctx, itemID); err != nil {
		return err
	}
	c.store.Dispatch(store.ChecklistItemRemoved{ID: itemID, CardID: cardID})
	return nil
}

// LoadSubItems replaces an item's sub-item bucket.
func (c *Checklists) LoadSubItems(ctx context.Context, itemID int64) error {
	subs, err := c.api.SubItemsByChecklistItem(ctx, itemID)
	if err != nil {
		return err
	}
	c.store.Dispatch(store.SubItemsLoaded{ChecklistItemID: itemID, SubItems: subs})
	return nil
}

// SaveSubItem creates or updates by identifier presence, scoped to the
// parent item.
func (c *Checklists) SaveSubItem(ctx context.Context, itemID int64, sub models.ChecklistSubItem) (models.ChecklistSubItem, error) {
	var saved *models.ChecklistSubItem
	var err error
	if sub.ID != 0 {
		saved, err = c.api.UpdateSubItem(ctx, sub)
	} else {
		saved, err = c.api.CreateSubItem(ctx, itemID, sub)
	}
	if err != nil {
		return models.ChecklistSubItem{}, err
	}
	c.store.Dispatch(store.SubItemUpserted{SubItem: *saved})
	return *saved, nil
}

// DeleteSubItem removes a sub-item from the server and its parent
// bucket.
func (c *Checklists) DeleteSubItem(ctx context.Context, subID, itemID int64) error {
	if err := c.api.DeleteSubItem(ctx, subID); err != nil {
		return err
	}
	c.store.Dispatch(store.SubItemRemoved{ID: subID, ChecklistItemID: itemID})
	return nil
}

// ToggleSubItem flips one sub-item's done flag and propagates: the
// parent item's completed flag becomes the AND over its sub-items, and
// the card's finished flag the AND over its items. Each flag that
// actually changed costs exactly one additional save; unchanged flags
// cost nothing.
func (c *Checklists) ToggleSubItem(ctx context.Context, card models.Card, item models.ChecklistItem, sub models.ChecklistSubItem) (models.Card, error) {
	sub.Done = !sub.Done
	if _, err := c.SaveSubItem(ctx, item.ID, sub); err != nil {
		return card, err
	}

	subs := c.store.SubItemsByChecklistItem(item.ID)
	item.SubItems = subs
	if derived := models.ItemCompleted(item); derived != item.Completed {
		item.Completed = derived
		if _, err := c.SaveItem(ctx, card.ID, item); err != nil {
			return card, err
		}
	}

	return c.reconcileCardFinished(ctx, card)
}

// ToggleItem flips an item's completed flag directly, marking every
// sub-item to match, then reconciles the card's finished flag.
func (c *Checklists) ToggleItem(ctx context.Context, card models.Card, item models.ChecklistItem) (models.Card, error) {
	item.Completed = !item.Completed
	if _, err := c.SaveItem(ctx, card.ID, item); err != nil {
		return card, err
	}
	for _, sub := range c.store.SubItemsByChecklistItem(item.ID) {
		if sub.Done == item.Completed {
			continue
		}
		sub.Done = item.Completed
		if _, err := c.SaveSubItem(ctx, item.ID, sub); err != nil {
			return card, err
		}
	}
	return c.reconcileCardFinished(ctx, card)
}

func (c *Checklists) reconcileCardFinished(ctx context.Context, card models.Card) (models.Card, error) {
	card.ChecklistItems = c.store.ChecklistItemsByCard(card.ID)
	if derived := models.CardFinished(card); derived != card.Finished {
		card.Finished = derived
		return c.cards.Save(ctx, card)
	}
	return card, nil
}
