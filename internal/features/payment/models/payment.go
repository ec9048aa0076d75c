package models

import (
	"time"

	"vpn-storefront/internal/platform/vpnapi"
)

// Channel is the payment rail picked on the tariffs page.
type Channel string

const (
	ChannelSBP    Channel = "sbp"
	ChannelCard   Channel = "card"
	ChannelStars  Channel = "stars"
	ChannelCrypto Channel = "crypto"
)

// IsRedirect reports whether the channel goes through the platega redirect.
func (c Channel) IsRedirect() bool {
	return c == ChannelSBP || c == ChannelCard
}

// State is the lifecycle of one payment flow.
type State string

const (
	StateIdle                 State = "idle"
	StateCreating             State = "creating"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StatePolling              State = "polling"
	StateResolvedSuccess      State = "resolved_success"
	StateResolvedFailure      State = "resolved_failure"
	StateAbandoned            State = "abandoned"
)

// Terminal reports whether the flow has ended.
func (s State) Terminal() bool {
	switch s {
	case StateResolvedSuccess, StateResolvedFailure, StateAbandoned:
		return true
	}
	return false
}

// ActionKind tells the Mini App how to continue.
type ActionKind string

const (
	ActionOpenLink    ActionKind = "open_link"
	ActionOpenInvoice ActionKind = "open_invoice"
)

type Action struct {
	Kind ActionKind `json:"kind" example:"open_link"`
	URL  string     `json:"url" example:"https://pay.example.com/checkout/1"`
}

// PaymentMethods are the payment_method values sent to /api/subscribe.
const (
	MethodStarsWebApp  = "stars-webapp"
	MethodCryptoWebApp = "crypto-webapp"
)

// CreatePaymentRequest starts a payment for the resolved identity.
type CreatePaymentRequest struct {
	Plan    vpnapi.PlanCode `json:"plan" validate:"required,oneof=1m 3m 6m 1y" example:"3m" enums:"1m,3m,6m,1y"`
	Devices int             `json:"devices" validate:"required,min=3,max=7" example:"3"`
	Channel Channel         `json:"channel" validate:"required,oneof=sbp card stars crypto" example:"crypto" enums:"sbp,card,stars,crypto"`
	// InvoiceSupported is set when the Telegram client can open invoices in-app.
	InvoiceSupported bool `json:"invoice_supported" example:"true"`
}

type CreatePaymentResponse struct {
	Channel     Channel  `json:"channel"`
	State       State    `json:"state"`
	Action      Action   `json:"action"`
	PaymentID   string   `json:"payment_id,omitempty"`
	InvoiceID   int64    `json:"invoice_id,omitempty"`
	StarsAmount int      `json:"stars_amount,omitempty"`
	AmountUSDT  *float64 `json:"amount_usdt,omitempty"`
	PriceRub    int      `json:"price_rub,omitempty"`
}

// StarsStatusRequest is the status reported by the in-app invoice callback.
type StarsStatusRequest struct {
	Status string `json:"status" validate:"required,max=32" example:"paid" enums:"paid,cancelled,failed,pending"`
}

type StarsStatusResponse struct {
	PaymentID string `json:"payment_id"`
	State     State  `json:"state"`
}

// FlowState is the last observed state of one channel for one identity.
type FlowState struct {
	Channel   Channel   `json:"channel"`
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StateResponse struct {
	Flows          []FlowState    `json:"flows"`
	PendingPayment *PendingMarker `json:"pending_payment,omitempty"`
	PendingCrypto  *CryptoMarker  `json:"pending_crypto,omitempty"`
	Watching       bool           `json:"watching"`
	CryptoPolling  bool           `json:"crypto_polling"`
}
