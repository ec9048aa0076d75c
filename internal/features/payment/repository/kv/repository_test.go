package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpn-storefront/internal/features/payment/models"
	"vpn-storefront/internal/platform/kvstore"
	"vpn-storefront/internal/platform/vpnapi"
)

func TestCryptoMarkerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewMarkerRepository(store)

	_, err := repo.GetCrypto(ctx, 1)
	require.ErrorIs(t, err, models.ErrMarkerNotFound)

	marker := models.CryptoMarker{InvoiceID: 42, TgChatID: 1, Plan: vpnapi.Plan3M, Devices: 4, CreatedAt: 1700000000000}
	require.NoError(t, repo.SaveCrypto(ctx, 1, marker))

	raw, err := store.Get(ctx, "tg:1:pending-crypto-payment")
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoiceId":42,"tgChatId":1,"plan":"3m","devices":4,"createdAt":1700000000000}`, raw)

	got, err := repo.GetCrypto(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, marker, *got)
	assert.Equal(t, "crypto_42", got.PaymentID())

	_, err = repo.GetCrypto(ctx, 2)
	require.ErrorIs(t, err, models.ErrMarkerNotFound)

	require.NoError(t, repo.DeleteCrypto(ctx, 1))
	_, err = repo.GetCrypto(ctx, 1)
	require.ErrorIs(t, err, models.ErrMarkerNotFound)
}

func TestMalformedMarkers(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewMarkerRepository(store)

	cases := map[string]string{
		"not json":        `{invoiceId`,
		"zero invoice id": `{"invoiceId":0,"tgChatId":1}`,
		"zero chat id":    `{"invoiceId":5,"tgChatId":0}`,
		"wrong type":      `{"invoiceId":"x","tgChatId":1}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "tg:1:pending-crypto-payment", raw))
			_, err := repo.GetCrypto(ctx, 1)
			assert.ErrorIs(t, err, models.ErrMarkerMalformed)
		})
	}

	require.NoError(t, store.Set(ctx, "tg:1:pending-platega-payment", `[]`))
	_, err := repo.GetPending(ctx, 1)
	assert.ErrorIs(t, err, models.ErrMarkerMalformed)
}

func TestPendingMarkerKeepsBaseline(t *testing.T) {
	ctx := context.Background()
	repo := NewMarkerRepository(kvstore.NewMemory())

	baseline := "2026-11-01T00:00:00Z"
	require.NoError(t, repo.SavePending(ctx, 7, models.PendingMarker{TgChatID: 7, CreatedAt: 1000, BaselineExpiresAt: &baseline}))

	got, err := repo.GetPending(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got.BaselineExpiresAt)
	assert.Equal(t, baseline, *got.BaselineExpiresAt)

	require.NoError(t, repo.DeletePending(ctx, 7))
	_, err = repo.GetPending(ctx, 7)
	assert.ErrorIs(t, err, models.ErrMarkerNotFound)
}
