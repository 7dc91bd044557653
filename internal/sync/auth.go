package sync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
)

// ErrPasswordMismatch is returned by Register before any remote call
// when the password and its confirmation differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Credentials is the persistent side of authentication: the stored
// bearer token and its issuance time. Satisfied by localstore.Store.
type Credentials interface {
	SetToken(token string) error
	Clear() error
}

// RegisterForm carries the registration fields plus the confirmation
// password, which never leaves the client.
type RegisterForm struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
}

// Auth synchronizes authentication state: tokens in the local store,
// cached collections on logout.
type Auth struct {
	api    *api.Client
	store  *store.Store
	creds  Credentials
	logger *slog.Logger
}

// NewAuth builds an auth synchronizer.
func NewAuth(client *api.Client, st *store.Store, creds Credentials, logger *slog.Logger) *Auth {
	return &Auth{api: client, store: st, creds: creds, logger: orDefault(logger)}
}

// Login exchanges credentials for a token and persists it.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if err := a.creds.SetToken(resp.Token); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// Register validates the confirmation client-side (no remote call is
// issued on mismatch) and then creates the account. The new account logs
// in after email verification.
func (a *Auth) Register(ctx context.Context, form RegisterForm) error {
	if form.Password != form.PasswordConfirm {
		return ErrPasswordMismatch
	}
	return a.api.Register(ctx, api.RegisterRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Username:  form.Username,
		Password:  form.Password,
	})
}

// CheckToken validates the stored token against the server and persists
// the refreshed one. On failure the client downgrades: stored
// credentials and cached collections are wiped.
func (a *Auth) CheckToken(ctx context.Context) (string, error) {
	resp, err := a.api.CheckToken(ctx)
	if err != nil {
		a.Logout()
		return "", err
	}
	if err := a.creds.SetToken(resp.Token); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// Logout clears the persistent credential store wholesale and resets
// the cache.
func (a *Auth) Logout() {
	if err := a.creds.Clear(); err != nil {
		a.logger.Warn("clearing stored credentials", "err", err)
	}
	a.store.Reset()
}

// ResendVerification asks the server to re-send the verification mail.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	return a.api.ResendVerification(ctx, email)
}

// LoadProfile fetches the viewer's profile.
func (a *Auth) LoadProfile(ctx context.Context) (*models.Profile, error) {
	return a.api.Profile(ctx)
}

// UpdateProfile replaces the viewer's profile.
func (a *Auth) UpdateProfile(ctx context.Context, id int64, profile models.Profile) error {
	return a.api.UpdateProfile(ctx, id, profile)
}
