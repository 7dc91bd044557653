package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// CreateCard creates a card and returns the server projection with its
// assigned identifier.
func (c *Client) CreateCard(ctx context.Context, card models.Card) (*models.Card, error) {
	var created models.Card
	if err := c.send(ctx, http.MethodPost, "/cards", card, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCard replaces the card identified by card.ID.
func (c *Client) UpdateCard(ctx context.Context, card models.Card) (*models.Card, error) {
	var updated models.Card
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/cards/%d", card.ID), card, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateCards persists a whole set of repositioned cards in one batch.
// Used by reordering so a drag never produces interleaved partial
// writes. The response carries the cards in their persisted order.
func (c *Client) UpdateCards(ctx context.Context, cards []models.Card) ([]models.Card, error) {
	var updated []models.Card
	if err := c.send(ctx, http.MethodPut, "/cards/bulk", cards, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", cardID), nil, nil)
}

// MyCards fetches every card assigned to the viewer across boards.
func (c *Client) MyCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := c.get(ctx, "/cards/my-cards", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CardsByBoardAndStatus fetches one status bucket in display order. This
// is the unit of cache refresh after any mutation that can affect
// ordering or bucket membership.
func (c *Client) CardsByBoardAndStatus(ctx context.Context, boardID, statusID int64) ([]models.Card, error) {
	var cards []models.Card
	path := fmt.Sprintf("/cards/boards/%d/cards/status-id/%d", boardID, statusID)
	if err := c.get(ctx, path, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
