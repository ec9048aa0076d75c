package service

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/features/preferences/models"
	"vpn-storefront/internal/platform/kvstore"
)

type PreferencesService interface {
	Get(ctx context.Context, identity int64) (*models.Preferences, error)
	Update(ctx context.Context, identity int64, req models.UpdatePreferencesRequest) (*models.Preferences, error)
	// Swipe resolves the tab a swipe leads to. A right swipe also completes
	// the onboarding.
	Swipe(ctx context.Context, identity int64, req models.SwipeRequest) (*models.SwipeResponse, error)
}

type preferencesService struct {
	store  kvstore.Store
	logger zerolog.Logger
}

func NewPreferencesService(store kvstore.Store, logger zerolog.Logger) PreferencesService {
	return &preferencesService{store: store, logger: logger}
}

func (s *preferencesService) Get(ctx context.Context, identity int64) (*models.Preferences, error) {
	store := kvstore.ForIdentity(s.store, identity)
	return &models.Preferences{
		Theme:              s.theme(ctx, store, identity),
		OnboardingComplete: s.onboardingComplete(ctx, store, identity),
	}, nil
}

func (s *preferencesService) Update(ctx context.Context, identity int64, req models.UpdatePreferencesRequest) (*models.Preferences, error) {
	store := kvstore.ForIdentity(s.store, identity)

	if req.Theme != nil {
		theme := models.ParseTheme(*req.Theme)
		if err := store.Set(ctx, models.ThemeKey, string(theme)); err != nil {
			return nil, errors.NewStoreError("save theme", err)
		}
	}
	if req.OnboardingComplete != nil && *req.OnboardingComplete {
		s.completeOnboarding(ctx, store, identity)
	}

	return s.Get(ctx, identity)
}

func (s *preferencesService) Swipe(ctx context.Context, identity int64, req models.SwipeRequest) (*models.SwipeResponse, error) {
	store := kvstore.ForIdentity(s.store, identity)

	// the overlay is dismissed for this session even if the flag is not saved
	dismissed := req.Direction == models.SwipeRight
	if dismissed {
		s.completeOnboarding(ctx, store, identity)
	}

	next := models.Next(req.From, req.Direction)
	return &models.SwipeResponse{
		Tab:                next,
		Changed:            next != req.From,
		OnboardingComplete: dismissed || s.onboardingComplete(ctx, store, identity),
	}, nil
}

func (s *preferencesService) theme(ctx context.Context, store kvstore.Store, identity int64) models.Theme {
	raw, err := store.Get(ctx, models.ThemeKey)
	if err != nil && !stderrors.Is(err, kvstore.ErrNotFound) {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to read theme")
	}
	return models.ParseTheme(raw)
}

// onboardingComplete treats storage errors as not completed.
func (s *preferencesService) onboardingComplete(ctx context.Context, store kvstore.Store, identity int64) bool {
	raw, err := store.Get(ctx, models.OnboardingKey)
	if err != nil {
		if !stderrors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to read onboarding flag")
		}
		return false
	}
	return raw == models.OnboardingDone
}

// completeOnboarding ignores storage errors.
func (s *preferencesService) completeOnboarding(ctx context.Context, store kvstore.Store, identity int64) {
	if err := store.Set(ctx, models.OnboardingKey, models.OnboardingDone); err != nil {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to save onboarding flag")
	}
}
