package kv

import (
	"context"
	"encoding/json"
	"errors"

	"vpn-storefront/internal/features/payment/models"
	"vpn-storefront/internal/features/payment/repository"
	"vpn-storefront/internal/platform/kvstore"
)

type markerRepository struct {
	store kvstore.Store
}

func NewMarkerRepository(store kvstore.Store) repository.MarkerRepository {
	return &markerRepository{store: store}
}

func (r *markerRepository) scoped(identity int64) kvstore.Store {
	return kvstore.ForIdentity(r.store, identity)
}

func (r *markerRepository) GetPending(ctx context.Context, identity int64) (*models.PendingMarker, error) {
	raw, err := r.get(ctx, identity, models.PendingPaymentKey)
	if err != nil {
		return nil, err
	}
	return models.ParsePendingMarker(raw)
}

func (r *markerRepository) SavePending(ctx context.Context, identity int64, marker models.PendingMarker) error {
	return r.put(ctx, identity, models.PendingPaymentKey, marker)
}

func (r *markerRepository) DeletePending(ctx context.Context, identity int64) error {
	return r.scoped(identity).Remove(ctx, models.PendingPaymentKey)
}

func (r *markerRepository) GetCrypto(ctx context.Context, identity int64) (*models.CryptoMarker, error) {
	raw, err := r.get(ctx, identity, models.PendingCryptoKey)
	if err != nil {
		return nil, err
	}
	return models.ParseCryptoMarker(raw)
}

func (r *markerRepository) SaveCrypto(ctx context.Context, identity int64, marker models.CryptoMarker) error {
	return r.put(ctx, identity, models.PendingCryptoKey, marker)
}

func (r *markerRepository) DeleteCrypto(ctx context.Context, identity int64) error {
	return r.scoped(identity).Remove(ctx, models.PendingCryptoKey)
}

func (r *markerRepository) get(ctx context.Context, identity int64, key string) (string, error) {
	raw, err := r.scoped(identity).Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", models.ErrMarkerNotFound
		}
		return "", err
	}
	if raw == "" {
		return "", models.ErrMarkerNotFound
	}
	return raw, nil
}

func (r *markerRepository) put(ctx context.Context, identity int64, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.scoped(identity).Set(ctx, key, string(data))
}
