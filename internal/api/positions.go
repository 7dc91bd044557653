package api

import (
	"context"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// UpdatePositions persists grid coordinates for the viewer's boards.
// The endpoint only speaks batches; a single move is a batch of one.
func (c *Client) UpdatePositions(ctx context.Context, positions []models.UserBoardPosition) error {
	return c.send(ctx, http.MethodPatch, "/user-board/position", positions, nil)
}
