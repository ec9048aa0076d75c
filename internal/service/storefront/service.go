// Package storefront couples the VPN API client with the read-through cache.
// Reads of the user status and the plan catalog go through the cache;
// payment creation calls pass straight to the backend.
package storefront

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/platform/vpnapi"
)

const (
	DefaultUserStatusMaxAge = 60 * time.Second
	DefaultPlansMaxAge      = 12 * time.Hour
)

// Backend is the subset of the VPN API the storefront relies on.
type Backend interface {
	EnsureUserStatus(ctx context.Context, tgChatID int64, tgUsername *string) (*vpnapi.UserStatus, error)
	GetPlans(ctx context.Context) (*vpnapi.PlansResponse, error)
	CreatePlategaPayment(ctx context.Context, req vpnapi.PlategaRequest) (*vpnapi.PlategaResponse, error)
	CreateStarsInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.StarsInvoice, error)
	CreateCryptoInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.CryptoInvoice, error)
	CheckCryptoInvoice(ctx context.Context, req vpnapi.CryptoCheckRequest) (*vpnapi.CryptoCheckResponse, error)
	ActivateSubscription(ctx context.Context, req vpnapi.SubscribeRequest) (*vpnapi.SubscribeResponse, error)
}

type Service struct {
	backend          Backend
	cache            *cache.CacheService
	userStatusMaxAge time.Duration
	plansMaxAge      time.Duration
	logger           zerolog.Logger
}

type Option func(*Service)

func WithMaxAges(userStatus, plans time.Duration) Option {
	return func(s *Service) {
		if userStatus > 0 {
			s.userStatusMaxAge = userStatus
		}
		if plans > 0 {
			s.plansMaxAge = plans
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(backend Backend, c *cache.CacheService, opts ...Option) *Service {
	s := &Service{
		backend:          backend,
		cache:            c,
		userStatusMaxAge: DefaultUserStatusMaxAge,
		plansMaxAge:      DefaultPlansMaxAge,
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Now() time.Time {
	return s.cache.Now()
}

// UseDefaultMaxAge asks the ReadCached* methods for the configured max age.
// Any negative value does the same; zero means fresh only at the write instant.
const UseDefaultMaxAge time.Duration = -1

// ReadCachedUserStatus returns a fresh cached status without touching the
// network.
func (s *Service) ReadCachedUserStatus(ctx context.Context, tgChatID int64, maxAge time.Duration) (*vpnapi.UserStatus, bool) {
	if maxAge < 0 {
		maxAge = s.userStatusMaxAge
	}
	return cache.ReadCached[*vpnapi.UserStatus](ctx, s.cache, cache.UserStatusKey(tgChatID), maxAge)
}

// GetCachedUserStatus reads the status through the cache, registering the
// account on first contact.
func (s *Service) GetCachedUserStatus(ctx context.Context, tgChatID int64, tgUsername *string, opts ...cache.Option) (*vpnapi.UserStatus, error) {
	opts = append([]cache.Option{cache.WithMaxAge(s.userStatusMaxAge)}, opts...)
	return cache.GetCached(ctx, s.cache, cache.UserStatusKey(tgChatID),
		func(ctx context.Context) (*vpnapi.UserStatus, error) {
			return s.backend.EnsureUserStatus(ctx, tgChatID, tgUsername)
		}, opts...)
}

func (s *Service) ReadCachedPlans(ctx context.Context, maxAge time.Duration) (*vpnapi.PlansResponse, bool) {
	if maxAge < 0 {
		maxAge = s.plansMaxAge
	}
	return cache.ReadCached[*vpnapi.PlansResponse](ctx, s.cache, cache.PlansKey, maxAge)
}

func (s *Service) GetCachedPlans(ctx context.Context, opts ...cache.Option) (*vpnapi.PlansResponse, error) {
	opts = append([]cache.Option{cache.WithMaxAge(s.plansMaxAge)}, opts...)
	return cache.GetCached(ctx, s.cache, cache.PlansKey, s.backend.GetPlans, opts...)
}

func (s *Service) InvalidateUserStatus(ctx context.Context, tgChatID int64) error {
	return s.cache.Invalidate(ctx, cache.UserStatusKey(tgChatID))
}

// ActivateSubscription activates a paid subscription and drops the cached
// status of that chat so the next read sees the new expiry.
func (s *Service) ActivateSubscription(ctx context.Context, req vpnapi.SubscribeRequest) (*vpnapi.SubscribeResponse, error) {
	resp, err := s.backend.ActivateSubscription(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.InvalidateUserStatus(ctx, req.TgChatID); err != nil {
		s.logger.Warn().Err(err).Int64("tg_chat_id", req.TgChatID).Msg("failed to invalidate user status")
	}
	return resp, nil
}

func (s *Service) CreatePlategaPayment(ctx context.Context, req vpnapi.PlategaRequest) (*vpnapi.PlategaResponse, error) {
	return s.backend.CreatePlategaPayment(ctx, req)
}

func (s *Service) CreateStarsInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.StarsInvoice, error) {
	return s.backend.CreateStarsInvoice(ctx, req)
}

func (s *Service) CreateCryptoInvoice(ctx context.Context, req vpnapi.InvoiceRequest) (*vpnapi.CryptoInvoice, error) {
	return s.backend.CreateCryptoInvoice(ctx, req)
}

func (s *Service) CheckCryptoInvoice(ctx context.Context, req vpnapi.CryptoCheckRequest) (*vpnapi.CryptoCheckResponse, error) {
	return s.backend.CheckCryptoInvoice(ctx, req)
}
