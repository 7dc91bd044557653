package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// CreateBoardRequest is the create payload: a name and the member set.
// The server assigns the identifier and the creator's membership.
type CreateBoardRequest struct {
	BoardName string           `json:"boardName"`
	Users     []models.UserRef `json:"users"`
}

// MyBoards fetches every board the viewer belongs to.
func (c *Client) MyBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := c.get(ctx, "/boards/my-boards", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// CreateBoard creates a board and returns the server's projection.
func (c *Client) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	var board models.Board
	if err := c.send(ctx, http.MethodPost, "/boards", req, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoard replaces the board identified by board.ID. The payload
// must carry the viewer's membership reference; the server treats an
// absent reference as a reset.
func (c *Client) UpdateBoard(ctx context.Context, board models.Board) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/boards/%d", board.ID), board, nil)
}

// DeleteBoard removes a board; membership cascade is server-side.
func (c *Client) DeleteBoard(ctx context.Context, boardID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d", boardID), nil, nil)
}

// LeaveBoard removes the viewer's membership of a board.
func (c *Client) LeaveBoard(ctx context.Context, boardID int64) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/boards/%d/leave", boardID), nil, nil)
}

// TransferAdmin hands board administration to the member with the given
// email.
func (c *Client) TransferAdmin(ctx context.Context, boardID int64, email string) error {
	path := fmt.Sprintf("/boards/%d/transfer-admin/%s", boardID, url.PathEscape(email))
	return c.send(ctx, http.MethodPut, path, nil, nil)
}
