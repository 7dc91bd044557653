package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// AuthResponse is the credential payload returned by login and
// check-token.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// LoginRequest carries password credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.send(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleLogin exchanges a Google ID token for a bearer token.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	var resp AuthResponse
	payload := map[string]string{"token": idToken}
	if err := c.send(ctx, http.MethodPost, "/auth/login/google", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The server sends a verification mail; the
// new account cannot log in until verified.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.send(ctx, http.MethodPost, "/auth/register", req, nil)
}

// CheckToken validates the stored token and returns a refreshed one.
func (c *Client) CheckToken(ctx context.Context) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/check-token", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendVerification asks the server to re-send the verification mail.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.send(ctx, http.MethodPost, "/auth/resend-verification", payload, nil)
}

// Profile fetches the viewer's profile.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.get(ctx, "/auth/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the profile identified by id.
func (c *Client) UpdateProfile(ctx context.Context, id int64, profile models.Profile) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/auth/profile/%d", id), profile, nil)
}

// KnownEmails returns every registered email, used for member pickers.
func (c *Client) KnownEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := c.get(ctx, "/auth/emails", &emails); err != nil {
		return nil, err
	}
	return emails, nil
}
