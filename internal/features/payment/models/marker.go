package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"vpn-storefront/internal/platform/vpnapi"
)

// Store keys, relative to the identity namespace.
const (
	PendingPaymentKey = "pending-platega-payment"
	PendingCryptoKey  = "pending-crypto-payment"
)

var (
	ErrMarkerNotFound  = errors.New("payment marker not found")
	ErrMarkerMalformed = errors.New("payment marker is malformed")
)

// PendingMarker is written when the user leaves for an external payment page
// and right after an in-app activation ("just activated"). The home view
// uses it to re-check the subscription for a short while.
type PendingMarker struct {
	TgChatID  int64 `json:"tgChatId"`
	CreatedAt int64 `json:"createdAt"` // unix ms
	// Expiry of the subscription seen before the payment started, if any.
	BaselineExpiresAt *string `json:"baselineExpiresAt,omitempty"`
}

func (m PendingMarker) Created() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

// CryptoMarker tracks an unpaid crypto invoice so polling can resume after
// a reload.
type CryptoMarker struct {
	InvoiceID int64           `json:"invoiceId"`
	TgChatID  int64           `json:"tgChatId"`
	Plan      vpnapi.PlanCode `json:"plan"`
	Devices   int             `json:"devices"`
	CreatedAt int64           `json:"createdAt"` // unix ms
}

func (m CryptoMarker) Created() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

// PaymentID is the id recorded with the activation of a crypto purchase.
func (m CryptoMarker) PaymentID() string {
	return "crypto_" + strconv.FormatInt(m.InvoiceID, 10)
}

func ParsePendingMarker(raw string) (*PendingMarker, error) {
	var m PendingMarker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, ErrMarkerMalformed
	}
	if m.TgChatID == 0 || m.CreatedAt <= 0 {
		return nil, ErrMarkerMalformed
	}
	return &m, nil
}

// ParseCryptoMarker rejects markers that cannot drive a poll: zero invoice
// or chat ids.
func ParseCryptoMarker(raw string) (*CryptoMarker, error) {
	var m CryptoMarker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, ErrMarkerMalformed
	}
	if m.InvoiceID == 0 || m.TgChatID == 0 {
		return nil, ErrMarkerMalformed
	}
	return &m, nil
}
