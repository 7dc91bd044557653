package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// ChecklistItemsByCard fetches a card's checklist in display order.
func (c *Client) ChecklistItemsByCard(ctx context.Context, cardID int64) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	if err := c.get(ctx, fmt.Sprintf("/checklist-items/card/%d", cardID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateChecklistItem creates an item under a card.
func (c *Client) CreateChecklistItem(ctx context.Context, cardID int64, item models.ChecklistItem) (*models.ChecklistItem, error) {
	var created models.ChecklistItem
	path := fmt.Sprintf("/checklist-items/card/%d", cardID)
	if err := c.send(ctx, http.MethodPost, path, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateChecklistItem replaces the item identified by item.ID.
func (c *Client) UpdateChecklistItem(ctx context.Context, item models.ChecklistItem) (*models.ChecklistItem, error) {
	var updated models.ChecklistItem
	path := fmt.Sprintf("/checklist-items/%d", item.ID)
	if err := c.send(ctx, http.MethodPut, path, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteChecklistItem removes an item and, server-side, its sub-items.
func (c *Client) DeleteChecklistItem(ctx context.Context, itemID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/checklist-items/%d", itemID), nil, nil)
}

// SubItemsByChecklistItem fetches an item's sub-items.
func (c *Client) SubItemsByChecklistItem(ctx context.Context, itemID int64) ([]models.ChecklistSubItem, error) {
	var subs []models.ChecklistSubItem
	if err := c.get(ctx, fmt.Sprintf("/checklist-subitems/%d", itemID), &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// CreateSubItem creates a sub-item under a checklist item.
func (c *Client) CreateSubItem(ctx context.Context, itemID int64, sub models.ChecklistSubItem) (*models.ChecklistSubItem, error) {
	var created models.ChecklistSubItem
	path := fmt.Sprintf("/checklist-subitems/%d", itemID)
	if err := c.send(ctx, http.MethodPost, path, sub, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSubItem replaces the sub-item identified by sub.ID.
func (c *Client) UpdateSubItem(ctx context.Context, sub models.ChecklistSubItem) (*models.ChecklistSubItem, error) {
	var updated models.ChecklistSubItem
	path := fmt.Sprintf("/checklist-subitems/%d", sub.ID)
	if err := c.send(ctx, http.MethodPut, path, sub, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSubItem removes a sub-item.
func (c *Client) DeleteSubItem(ctx context.Context, subID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/checklist-subitems/%d", subID), nil, nil)
}
