package api

import (
	"context"
	"net/http"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// CheckoutSession is the server's answer to a checkout request; the
// URL is opened in a browser, the session completes out of band.
type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// BillingResult carries the outcome message for cancel/reactivate.
type BillingResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// CreateCheckoutSession starts a subscription checkout. priceID may be
// empty to use the server's default price.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (*CheckoutSession, error) {
	payload := map[string]string{}
	if priceID != "" {
		payload["priceId"] = priceID
	}
	var session CheckoutSession
	if err := c.send(ctx, http.MethodPost, "/api/stripe/create-checkout-session", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelSubscription schedules cancellation at period end.
func (c *Client) CancelSubscription(ctx context.Context) (*BillingResult, error) {
	var result BillingResult
	if err := c.send(ctx, http.MethodPost, "/api/stripe/cancel-subscription", struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReactivateSubscription undoes a pending cancellation.
func (c *Client) ReactivateSubscription(ctx context.Context) (*BillingResult, error) {
	var result BillingResult
	if err := c.send(ctx, http.MethodPost, "/api/stripe/reactivate-subscription", struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubscriptionStatus fetches the viewer's current subscription state.
func (c *Client) SubscriptionStatus(ctx context.Context) (*models.Subscription, error) {
	var sub models.Subscription
	if err := c.get(ctx, "/api/stripe/subscription-status", &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
