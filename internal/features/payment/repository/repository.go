package repository

import (
	"context"

	"vpn-storefront/internal/features/payment/models"
)

// MarkerRepository persists payment markers per Telegram identity.
// Getters return models.ErrMarkerNotFound or models.ErrMarkerMalformed.
type MarkerRepository interface {
	GetPending(ctx context.Context, identity int64) (*models.PendingMarker, error)
	SavePending(ctx context.Context, identity int64, marker models.PendingMarker) error
	DeletePending(ctx context.Context, identity int64) error

	GetCrypto(ctx context.Context, identity int64) (*models.CryptoMarker, error)
	SaveCrypto(ctx context.Context, identity int64, marker models.CryptoMarker) error
	DeleteCrypto(ctx context.Context, identity int64) error
}
