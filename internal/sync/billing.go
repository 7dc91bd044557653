package sync

import (
	"context"
	"log/slog"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// Billing wraps the subscription endpoints. Checkout itself completes
// in a browser; the client only opens the session and tracks status.
type Billing struct {
	api    *api.Client
	logger *slog.Logger
}

// NewBilling builds a billing synchronizer.
func NewBilling(client *api.Client, logger *slog.Logger) *Billing {
	return &Billing{api: client, logger: orDefault(logger)}
}

// Checkout starts a checkout session and returns the URL to open.
func (b *Billing) Checkout(ctx context.Context, priceID string) (*api.CheckoutSession, error) {
	return b.api.CreateCheckoutSession(ctx, priceID)
}

// Status fetches the viewer's subscription state.
func (b *Billing) Status(ctx context.Context) (*models.Subscription, error) {
	return b.api.SubscriptionStatus(ctx)
}

// Cancel schedules cancellation, then refetches status so the caller
// renders the post-cancel state rather than trusting the echo.
func (b *Billing) Cancel(ctx context.Context) (*models.Subscription, error) {
	if _, err := b.api.CancelSubscription(ctx); err != nil {
		return nil, err
	}
	return b.Status(ctx)
}

// Reactivate undoes a pending cancellation, then refetches status.
func (b *Billing) Reactivate(ctx context.Context) (*models.Subscription, error) {
	if _, err := b.api.ReactivateSubscription(ctx); err != nil {
		return nil, err
	}
	return b.Status(ctx)
}
