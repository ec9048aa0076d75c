package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/common/errors"
	paymentservice "vpn-storefront/internal/features/payment/service"
	"vpn-storefront/internal/identity"
	"vpn-storefront/internal/platform/vpnapi"
)

type fakeStatuses struct {
	status *vpnapi.UserStatus
	err    error
	calls  int
}

func (f *fakeStatuses) GetCachedUserStatus(_ context.Context, tgChatID int64, _ *string, _ ...cache.Option) (*vpnapi.UserStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := *f.status
	s.TgChatID = tgChatID
	return &s, nil
}

type fakeResumer struct {
	customers []paymentservice.Customer
}

func (f *fakeResumer) ResumePending(_ context.Context, customer paymentservice.Customer) bool {
	f.customers = append(f.customers, customer)
	return true
}

func profileOf(id int64) identity.Profile {
	username := "ivan"
	return identity.Profile{UserID: &id, ChatID: &id, Username: &username}
}

func subscribed() *vpnapi.UserStatus {
	return &vpnapi.UserStatus{
		HasSubscription: true,
		Subscription: &vpnapi.Subscription{
			Plan:      vpnapi.Plan3M,
			ExpiresAt: "2026-02-15T00:00:00Z",
			DaysLeft:  30,
		},
		SubURL:         "https://sub.example/abc",
		ReferralsCount: 2,
		BonusDays:      14,
		DevicesCount:   1,
		Devices:        []vpnapi.Device{{ID: 5}},
		Purchases: []vpnapi.Purchase{{
			ID: 9, Plan: vpnapi.Plan3M, PricePaid: 269,
			CreatedAt: "2025-11-17T00:00:00Z",
			StartedAt: "2025-11-17T00:00:00Z",
			ExpiresAt: "2026-02-15T00:00:00Z",
		}},
	}
}

func TestHome(t *testing.T) {
	statuses := &fakeStatuses{status: subscribed()}
	resumer := &fakeResumer{}
	svc := NewAccountService(statuses, resumer, zerolog.Nop())

	resp, err := svc.Home(context.Background(), profileOf(660741573))
	require.NoError(t, err)

	assert.Equal(t, "660741573", resp.ID)
	assert.Equal(t, "https://t.me/psychowarevpnxbot", resp.InviteLink)
	require.NotNil(t, resp.Subscription)
	assert.Equal(t, "15.02.2026", resp.Subscription.ExpiresLabel)
	assert.True(t, resp.Watching)

	require.Len(t, resumer.customers, 1)
	assert.Equal(t, int64(660741573), resumer.customers[0].Identity)
}

func TestHomeKeepsRenderingOnStatusError(t *testing.T) {
	statuses := &fakeStatuses{err: errors.NewUpstreamStatusError(503, "")}
	svc := NewAccountService(statuses, nil, zerolog.Nop())

	resp, err := svc.Home(context.Background(), profileOf(1))
	require.NoError(t, err)

	assert.Equal(t, "API request failed: 503", resp.StatusError)
	assert.Nil(t, resp.Subscription)
	assert.False(t, resp.Watching)
}

func TestHomeWithoutIdentity(t *testing.T) {
	svc := NewAccountService(&fakeStatuses{}, nil, zerolog.Nop())

	_, err := svc.Home(context.Background(), identity.Profile{})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIdentityMissing, appErr.Code)
}

func TestConnect(t *testing.T) {
	svc := NewAccountService(&fakeStatuses{status: subscribed()}, nil, zerolog.Nop())

	resp, err := svc.Connect(context.Background(), profileOf(1))
	require.NoError(t, err)

	assert.True(t, resp.HasSubscription)
	require.Len(t, resp.Links, 4)
	assert.Equal(t, "https://subs.psychoware.ru/url?url=happ://add/https://sub.example/abc", resp.Links[0].URL)
}

func TestConnectWithoutSubscription(t *testing.T) {
	status := &vpnapi.UserStatus{SubURL: "https://sub.example/old"}
	svc := NewAccountService(&fakeStatuses{status: status}, nil, zerolog.Nop())

	resp, err := svc.Connect(context.Background(), profileOf(1))
	require.NoError(t, err)

	assert.False(t, resp.HasSubscription)
	assert.Empty(t, resp.SubURL)
	assert.Empty(t, resp.Links)
}

func TestConnectPropagatesError(t *testing.T) {
	svc := NewAccountService(&fakeStatuses{err: errors.NewUpstreamStatusError(500, "boom")}, nil, zerolog.Nop())

	_, err := svc.Connect(context.Background(), profileOf(1))
	assert.Equal(t, 500, errors.StatusOf(err))
}

func TestCabinet(t *testing.T) {
	svc := NewAccountService(&fakeStatuses{status: subscribed()}, nil, zerolog.Nop())

	resp, err := svc.Cabinet(context.Background(), profileOf(660741573))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ReferralsCount)
	assert.Equal(t, 14, resp.BonusDays)
	require.Len(t, resp.Devices, 1)
	assert.Equal(t, "Устройство 5", resp.Devices[0].Name)
	require.Len(t, resp.Purchases, 1)
	assert.Equal(t, "17.11.2025", resp.Purchases[0].DateLabel)
	assert.Equal(t, 90, resp.Purchases[0].Days)
	assert.Equal(t, "https://t.me/psychowarevpnxbot", resp.InviteLink)
}

func TestConfiguredLinks(t *testing.T) {
	svc := NewAccountService(&fakeStatuses{status: subscribed()}, nil, zerolog.Nop(),
		WithLinks("https://t.me/otherbot", "https://gate.example/?u="))

	home, err := svc.Home(context.Background(), profileOf(1))
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/otherbot", home.InviteLink)

	connect, err := svc.Connect(context.Background(), profileOf(1))
	require.NoError(t, err)
	assert.Equal(t, "https://gate.example/?u=v2raytun://import/https://sub.example/abc", connect.Links[2].URL)
}
