package vpnapi

import (
	"context"
	"fmt"
	"net/http"

	apperrors "vpn-storefront/internal/common/errors"
)

// Register creates the account. The backend treats repeated calls as no-ops.
func (c *Client) Register(ctx context.Context, tgChatID int64, tgUsername *string) error {
	body := RegisterRequest{TgChatID: tgChatID, TgUsername: tgUsername}
	if err := c.Request(ctx, http.MethodPost, "/api/register", body, nil, nil); err != nil {
		return fmt.Errorf("register %d: %w", tgChatID, err)
	}
	return nil
}

func (c *Client) GetUserStatus(ctx context.Context, tgChatID int64) (*UserStatus, error) {
	var out UserStatus
	if err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/user/%d", tgChatID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureUserStatus fetches the status and, when the account does not exist
// yet (HTTP 404), registers it and fetches once more.
func (c *Client) EnsureUserStatus(ctx context.Context, tgChatID int64, tgUsername *string) (*UserStatus, error) {
	status, err := c.GetUserStatus(ctx, tgChatID)
	if err == nil {
		return status, nil
	}
	if apperrors.StatusOf(err) != http.StatusNotFound {
		return nil, err
	}

	c.logger.Info().Int64("tg_chat_id", tgChatID).Msg("user not registered, registering")
	if err := c.Register(ctx, tgChatID, tgUsername); err != nil {
		return nil, err
	}
	return c.GetUserStatus(ctx, tgChatID)
}

func (c *Client) GetPlans(ctx context.Context) (*PlansResponse, error) {
	var out PlansResponse
	if err := c.Request(ctx, http.MethodGet, "/api/plans", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePlategaPayment(ctx context.Context, req PlategaRequest) (*PlategaResponse, error) {
	var out PlategaResponse
	if err := c.Request(ctx, http.MethodPost, "/api/platega/create", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStarsInvoice(ctx context.Context, req InvoiceRequest) (*StarsInvoice, error) {
	var out StarsInvoice
	if err := c.Request(ctx, http.MethodPost, "/api/stars/create", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCryptoInvoice(ctx context.Context, req InvoiceRequest) (*CryptoInvoice, error) {
	var out CryptoInvoice
	if err := c.Request(ctx, http.MethodPost, "/api/crypto/create", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckCryptoInvoice(ctx context.Context, req CryptoCheckRequest) (*CryptoCheckResponse, error) {
	var out CryptoCheckResponse
	if err := c.Request(ctx, http.MethodPost, "/api/crypto/check", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateSubscription posts to /api/subscribe. Callers holding a cache must
// invalidate the user status afterwards; storefront.Service does that.
func (c *Client) ActivateSubscription(ctx context.Context, req SubscribeRequest) (*SubscribeResponse, error) {
	var out SubscribeResponse
	if err := c.Request(ctx, http.MethodPost, "/api/subscribe", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
