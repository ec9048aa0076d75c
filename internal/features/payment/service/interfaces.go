package service

import (
	"context"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/features/payment/models"
	"vpn-storefront/internal/platform/vpnapi"
)

// Customer is the identity a payment is made for.
type Customer struct {
	Identity int64
	Username *string
}

type PaymentService interface {
	CreatePayment(ctx context.Context, customer Customer, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error)
	ReportStarsStatus(ctx context.Context, identity int64, paymentID, status string) (*models.StarsStatusResponse, error)
	// ResumeCrypto is called when the tariffs page loads.
	ResumeCrypto(ctx context.Context, identity int64) bool
	// ResumePending is called when the home page loads.
	ResumePending(ctx context.Context, customer Customer) bool
	State(ctx context.Context, identity int64) (*models.StateResponse, error)
	Shutdown()
}

// Storefront is the cached VPN API surface payments depend on.
type Storefront interface {
	GetCachedUserStatus(ctx context.Context, tgChatID int64, tgUsername *string, opts ...cache.Option) (*vpnapi.UserStatus, error)
	CreatePlategaPayment(ctx context.Context, req vpnapi.PlategaRequest) (*vpnapi.PlategaResponse, error)
	CreateStarsInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.StarsInvoice, error)
	CreateCryptoInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.CryptoInvoice, error)
	CheckCryptoInvoice(ctx context.Context, req vpnapi.CryptoCheckRequest) (*vpnapi.CryptoCheckResponse, error)
	ActivateSubscription(ctx context.Context, req vpnapi.SubscribeRequest) (*vpnapi.SubscribeResponse, error)
}
