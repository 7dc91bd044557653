package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// LabelsByBoard fetches a board's labels.
func (c *Client) LabelsByBoard(ctx context.Context, boardID int64) ([]models.Label, error) {
	var labels []models.Label
	if err := c.get(ctx, fmt.Sprintf("/labels/%d", boardID), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates a label scoped to label.BoardID.
func (c *Client) CreateLabel(ctx context.Context, label models.Label) (*models.Label, error) {
	var created models.Label
	if err := c.send(ctx, http.MethodPost, fmt.Sprintf("/labels/%d", label.BoardID), label, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLabel replaces the label identified by label.ID.
func (c *Client) UpdateLabel(ctx context.Context, label models.Label) (*models.Label, error) {
	var updated models.Label
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/labels/%d", label.ID), label, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteLabel removes a label; cards referencing it are cleared
// server-side.
func (c *Client) DeleteLabel(ctx context.Context, labelID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/labels/%d", labelID), nil, nil)
}
