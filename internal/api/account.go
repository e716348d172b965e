package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"einvoice/pkg/models"
)

// Subscription returns the current plan and usage.
func (c *Client) Subscription(ctx context.Context) (*models.Subscription, error) {
	return call[models.Subscription](ctx, c, "Subscription", http.MethodGet, "/billing/subscription", nil, nil)
}

// CreateCheckout starts a Stripe checkout for plan and returns its URL.
func (c *Client) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	const op = "CreateCheckout"
	if req.Plan == "" {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: plan is required", ErrBadRequest)}
	}
	return call[models.CheckoutSession](ctx, c, op, http.MethodPost, "/billing/checkout", nil, req)
}

// CreatePortal opens a Stripe customer portal session.
func (c *Client) CreatePortal(ctx context.Context) (*models.PortalSession, error) {
	return call[models.PortalSession](ctx, c, "CreatePortal", http.MethodPost, "/billing/portal", nil, nil)
}

func (c *Client) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	return list[models.APIKey](ctx, c, "ListAPIKeys", "/api-keys", nil)
}

// CreateAPIKey returns the new key including its secret, which is not retrievable later.
func (c *Client) CreateAPIKey(ctx context.Context, in models.APIKeyInput) (*models.CreatedAPIKey, error) {
	return call[models.CreatedAPIKey](ctx, c, "CreateAPIKey", http.MethodPost, "/api-keys", nil, in)
}

func (c *Client) DeleteAPIKey(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteAPIKey", http.MethodDelete, "/api-keys/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListWebhooks(ctx context.Context) ([]models.Webhook, error) {
	return list[models.Webhook](ctx, c, "ListWebhooks", "/webhooks", nil)
}

func (c *Client) CreateWebhook(ctx context.Context, in models.WebhookInput) (*models.Webhook, error) {
	const op = "CreateWebhook"
	u, err := url.Parse(in.URL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: webhook URL must be http(s)", ErrBadRequest)}
	}
	return call[models.Webhook](ctx, c, op, http.MethodPost, "/webhooks", nil, in)
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteWebhook", http.MethodDelete, "/webhooks/"+url.PathEscape(id), nil, nil, nil)
}

// TestWebhook asks the backend to send a test event to the webhook URL.
func (c *Client) TestWebhook(ctx context.Context, id string) (*models.WebhookTestResult, error) {
	return call[models.WebhookTestResult](ctx, c, "TestWebhook", http.MethodPost, "/webhooks/"+url.PathEscape(id)+"/test", nil, nil)
}

// ListNotifications returns notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread", "true")
	}
	return list[models.Notification](ctx, c, "ListNotifications", "/notifications", q)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, "MarkNotificationRead", http.MethodPost, "/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.doJSON(ctx, "MarkAllNotificationsRead", http.MethodPost, "/notifications/read-all", nil, nil, nil)
}
