package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// StatusesByBoard fetches a board's columns in display order.
func (c *Client) StatusesByBoard(ctx context.Context, boardID int64) ([]models.Status, error) {
	var statuses []models.Status
	if err := c.get(ctx, fmt.Sprintf("/status/board/%d", boardID), &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// CreateStatus creates a column on a board.
func (c *Client) CreateStatus(ctx context.Context, status models.Status) (*models.Status, error) {
	var created models.Status
	if err := c.send(ctx, http.MethodPost, "/status", status, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatus renames the column identified by status.ID.
func (c *Client) UpdateStatus(ctx context.Context, status models.Status) (*models.Status, error) {
	var updated models.Status
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/status/%d", status.ID), status, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStatus removes a column; the server rejects the call while cards
// remain in it.
func (c *Client) DeleteStatus(ctx context.Context, statusID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/status/%d", statusID), nil, nil)
}
