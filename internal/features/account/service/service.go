package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/features/account/models"
	paymentservice "vpn-storefront/internal/features/payment/service"
	"vpn-storefront/internal/identity"
	"vpn-storefront/internal/platform/vpnapi"
)

// StatusSource is the cached user status.
type StatusSource interface {
	GetCachedUserStatus(ctx context.Context, tgChatID int64, tgUsername *string, opts ...cache.Option) (*vpnapi.UserStatus, error)
}

// PendingResumer picks up a redirect payment saved before the app was closed.
type PendingResumer interface {
	ResumePending(ctx context.Context, customer paymentservice.Customer) bool
}

type AccountService interface {
	Home(ctx context.Context, profile identity.Profile) (*models.HomeResponse, error)
	Connect(ctx context.Context, profile identity.Profile) (*models.ConnectResponse, error)
	Cabinet(ctx context.Context, profile identity.Profile) (*models.CabinetResponse, error)
}

type accountService struct {
	statuses   StatusSource
	resumer    PendingResumer
	inviteLink string
	linkGate   string
	logger     zerolog.Logger
}

type Option func(*accountService)

// WithLinks overrides the bot invite link and the subscription link gate.
// Empty values keep the defaults.
func WithLinks(inviteLink, linkGate string) Option {
	return func(s *accountService) {
		if inviteLink != "" {
			s.inviteLink = inviteLink
		}
		if linkGate != "" {
			s.linkGate = linkGate
		}
	}
}

func NewAccountService(statuses StatusSource, resumer PendingResumer, logger zerolog.Logger, opts ...Option) AccountService {
	s := &accountService{
		statuses:   statuses,
		resumer:    resumer,
		inviteLink: models.BotInviteLink,
		linkGate:   models.SubsLinkGate,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *accountService) status(ctx context.Context, profile identity.Profile) (int64, *vpnapi.UserStatus, error) {
	id, ok := profile.Identity()
	if !ok {
		return 0, nil, errors.NewIdentityMissingError()
	}
	status, err := s.statuses.GetCachedUserStatus(ctx, id, profile.Username)
	return id, status, err
}

// Home renders even when the status is unavailable; the error is reported
// in the response.
func (s *accountService) Home(ctx context.Context, profile identity.Profile) (*models.HomeResponse, error) {
	id, ok := profile.Identity()
	if !ok {
		return nil, errors.NewIdentityMissingError()
	}

	resp := &models.HomeResponse{
		Profile:     profile,
		ID:          strconv.FormatInt(id, 10),
		InviteLink:  s.inviteLink,
		ChannelLink: models.ChannelLink,
		SupportLink: models.SupportLink,
	}

	if s.resumer != nil {
		resp.Watching = s.resumer.ResumePending(ctx, paymentservice.Customer{
			Identity: id,
			Username: profile.Username,
		})
	}

	_, status, err := s.status(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Int64("identity", id).Msg("Failed to load user status")
		resp.StatusError = err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			resp.StatusError = appErr.Message
		}
		return resp, nil
	}

	resp.Blocked = status.IsBlocked
	resp.Subscription = models.NewSubscriptionView(status)
	return resp, nil
}

func (s *accountService) Connect(ctx context.Context, profile identity.Profile) (*models.ConnectResponse, error) {
	_, status, err := s.status(ctx, profile)
	if err != nil {
		return nil, err
	}

	subURL := status.ActiveSubURL()
	return &models.ConnectResponse{
		HasSubscription: subURL != "",
		SubURL:          subURL,
		Links:           models.BuildGatedAppLinks(s.linkGate, subURL),
	}, nil
}

func (s *accountService) Cabinet(ctx context.Context, profile identity.Profile) (*models.CabinetResponse, error) {
	id, status, err := s.status(ctx, profile)
	if err != nil {
		return nil, err
	}

	resp := &models.CabinetResponse{
		Profile:        profile,
		ID:             strconv.FormatInt(id, 10),
		ReferralsCount: status.ReferralsCount,
		BonusDays:      status.BonusDays,
		DevicesCount:   status.DevicesCount,
		Devices:        make([]models.DeviceView, 0, len(status.Devices)),
		Purchases:      make([]models.PurchaseView, 0, len(status.Purchases)),
		Subscription:   models.NewSubscriptionView(status),
		InviteLink:     s.inviteLink,
	}
	for _, d := range status.Devices {
		resp.Devices = append(resp.Devices, models.NewDeviceView(d))
	}
	for _, p := range status.Purchases {
		resp.Purchases = append(resp.Purchases, models.NewPurchaseView(p))
	}
	return resp, nil
}
