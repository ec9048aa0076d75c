package service

import (
	"context"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/common/validation"
	"vpn-storefront/internal/features/tariffs/models"
	"vpn-storefront/internal/platform/vpnapi"
)

// PlansSource is the cached plan catalog.
type PlansSource interface {
	GetCachedPlans(ctx context.Context, opts ...cache.Option) (*vpnapi.PlansResponse, error)
}

// CryptoResumer picks up a crypto invoice saved before the page was closed.
type CryptoResumer interface {
	ResumeCrypto(ctx context.Context, identity int64) bool
}

type TariffService interface {
	// Catalog builds the tariffs page for the identity. An empty plan keeps
	// the default selection.
	Catalog(ctx context.Context, identity int64, devices int, plan vpnapi.PlanCode) (*models.CatalogResponse, error)
}

type tariffService struct {
	plans   PlansSource
	resumer CryptoResumer
	logger  zerolog.Logger
}

func NewTariffService(plans PlansSource, resumer CryptoResumer, logger zerolog.Logger) TariffService {
	return &tariffService{
		plans:   plans,
		resumer: resumer,
		logger:  logger,
	}
}

func (s *tariffService) Catalog(ctx context.Context, identity int64, devices int, plan vpnapi.PlanCode) (*models.CatalogResponse, error) {
	devices = validation.ClampDevices(devices)

	plans, source := s.load(ctx)

	selected := models.DefaultSelection(plans)
	for i := range plans {
		if plans[i].Plan == plan {
			selected = &plans[i]
			break
		}
	}

	resp := &models.CatalogResponse{
		Source:     source,
		Devices:    devices,
		MinDevices: validation.MinDevices,
		MaxDevices: validation.MaxDevices,
		Options:    make([]models.TariffOption, 0, len(plans)),
	}
	if selected != nil {
		resp.Selected = selected.Plan
		resp.Total = models.PriceFor(*selected, devices)
	}

	for _, p := range plans {
		resp.Options = append(resp.Options, models.TariffOption{
			Plan:         p.Plan,
			Days:         p.Days,
			Period:       models.PeriodLabel(p.Plan),
			Price:        models.PriceFor(p, devices),
			MonthlyPrice: models.MonthlyPrice(p, devices),
			Prices:       p.Prices,
			Selected:     selected != nil && p.Plan == selected.Plan,
		})
	}

	if identity != 0 && s.resumer != nil {
		resp.CryptoPolling = s.resumer.ResumeCrypto(ctx, identity)
	}

	return resp, nil
}

// load falls back to the built-in catalog when the backend and the cache
// both fail or the list is empty.
func (s *tariffService) load(ctx context.Context) ([]vpnapi.Plan, models.Source) {
	resp, err := s.plans.GetCachedPlans(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load plans")
		return models.DefaultCatalog(), models.SourceDefault
	}

	if resp == nil || len(resp.Plans) == 0 {
		s.logger.Warn().Msg("Plans list is empty")
		return models.DefaultCatalog(), models.SourceDefault
	}
	return models.SortPlans(resp.Plans), models.SourceBackend
}
