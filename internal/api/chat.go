package api

import (
	"context"
	"fmt"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// ChatHistory fetches a board's stored chat messages. Called once per
// board before the realtime channel takes over.
func (c *Client) ChatHistory(ctx context.Context, boardID int64) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := c.get(ctx, fmt.Sprintf("/api/chat/%d/messages", boardID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
