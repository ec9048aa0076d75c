package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/common/metrics"
	"vpn-storefront/internal/platform/vpnapi"
)

// PlansSource is the cached plan catalog.
type PlansSource interface {
	GetCachedPlans(ctx context.Context, opts ...cache.Option) (*vpnapi.PlansResponse, error)
}

// PlansWarmer refreshes the plan catalog in the background so the tariffs
// page is served from cache.
type PlansWarmer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	source   PlansSource
	interval time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup

	refreshes atomic.Int64
	failures  atomic.Int64
}

func NewPlansWarmer(source PlansSource, interval time.Duration, logger zerolog.Logger) *PlansWarmer {
	ctx, cancel := context.WithCancel(context.Background())
	return &PlansWarmer{
		ctx:      ctx,
		cancel:   cancel,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Start refreshes once and then on every tick. A non-positive interval
// disables the warmer.
func (w *PlansWarmer) Start() {
	if w.interval <= 0 {
		w.logger.Info().Msg("Plans warmer disabled")
		return
	}

	w.logger.Info().Dur("interval", w.interval).Msg("Starting plans warmer")
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		w.refresh()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.refresh()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

func (w *PlansWarmer) Stop() {
	w.cancel()
	w.wg.Wait()
	w.logger.Info().
		Int64("refreshes", w.refreshes.Load()).
		Int64("failures", w.failures.Load()).
		Msg("Plans warmer stopped")
}

func (w *PlansWarmer) refresh() {
	resp, err := w.source.GetCachedPlans(w.ctx, cache.WithForceRefresh(), cache.WithoutStaleFallback())
	if err != nil {
		if w.ctx.Err() != nil {
			return
		}
		w.failures.Add(1)
		metrics.PlansRefreshTotal.WithLabelValues("error").Inc()
		w.logger.Warn().Err(err).Msg("Failed to refresh plans")
		return
	}
	w.refreshes.Add(1)
	metrics.PlansRefreshTotal.WithLabelValues("ok").Inc()
	w.logger.Debug().Int("plans", len(resp.Plans)).Msg("Plans refreshed")
}

// Refreshes returns the number of successful refreshes.
func (w *PlansWarmer) Refreshes() int64 {
	return w.refreshes.Load()
}
