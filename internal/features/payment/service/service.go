package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/cache"
	apperrors "vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/features/payment/models"
	"vpn-storefront/internal/features/payment/repository"
	"vpn-storefront/internal/platform/vpnapi"
)

const (
	DefaultCryptoPollInterval  = 6 * time.Second
	DefaultCryptoPollTimeout   = 5 * time.Minute
	DefaultPendingPollInterval = 5 * time.Second
	DefaultPendingPollTimeout  = 60 * time.Second
)

// refreshOptions make the pending watcher bypass the cache and see failures.
var refreshOptions = []cache.Option{cache.WithForceRefresh(), cache.WithoutStaleFallback()}

// Settings are the polling timings. Zero values fall back to the defaults.
type Settings struct {
	CryptoPollInterval  time.Duration
	CryptoPollTimeout   time.Duration
	PendingPollInterval time.Duration
	PendingPollTimeout  time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.CryptoPollInterval <= 0 {
		s.CryptoPollInterval = DefaultCryptoPollInterval
	}
	if s.CryptoPollTimeout <= 0 {
		s.CryptoPollTimeout = DefaultCryptoPollTimeout
	}
	if s.PendingPollInterval <= 0 {
		s.PendingPollInterval = DefaultPendingPollInterval
	}
	if s.PendingPollTimeout <= 0 {
		s.PendingPollTimeout = DefaultPendingPollTimeout
	}
	return s
}

type paymentService struct {
	storefront Storefront
	markers    repository.MarkerRepository
	poller     *Poller
	flows      *flowTracker
	stars      *starsRegistry
	settings   Settings
	now        func() time.Time
	logger     zerolog.Logger
}

type Option func(*paymentService)

func WithClock(now func() time.Time) Option {
	return func(s *paymentService) { s.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *paymentService) { s.logger = l }
}

func NewPaymentService(storefront Storefront, markers repository.MarkerRepository, settings Settings, opts ...Option) PaymentService {
	s := &paymentService{
		storefront: storefront,
		markers:    markers,
		stars:      newStarsRegistry(),
		settings:   settings.withDefaults(),
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.poller = NewPoller(s.logger)
	s.flows = newFlowTracker(s.now)
	return s
}

func (s *paymentService) CreatePayment(ctx context.Context, customer Customer, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	id := customer.Identity
	s.flows.set(id, req.Channel, models.StateCreating, "")

	resp, err := s.create(ctx, customer, req)
	if err != nil {
		s.flows.set(id, req.Channel, models.StateResolvedFailure, err.Error())
		s.logger.Error().Err(err).
			Int64("identity", id).
			Str("channel", string(req.Channel)).
			Msg("Failed to create payment")
		return nil, err
	}
	return resp, nil
}

func (s *paymentService) create(ctx context.Context, customer Customer, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	// registers the account on first contact
	status, err := s.storefront.GetCachedUserStatus(ctx, customer.Identity, customer.Username)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Channel.IsRedirect():
		return s.createRedirect(ctx, customer.Identity, req, status)
	case req.Channel == models.ChannelStars:
		return s.createStars(ctx, customer.Identity, req)
	case req.Channel == models.ChannelCrypto:
		return s.createCrypto(ctx, customer.Identity, req)
	}
	return nil, apperrors.NewValidationError("channel", "unsupported payment channel")
}

func (s *paymentService) createRedirect(ctx context.Context, id int64, req models.CreatePaymentRequest, status *vpnapi.UserStatus) (*models.CreatePaymentResponse, error) {
	payment, err := s.storefront.CreatePlategaPayment(ctx, vpnapi.PlategaRequest{
		TgChatID: id,
		Plan:     req.Plan,
		Devices:  req.Devices,
		Method:   vpnapi.PaymentMethod(req.Channel),
	})
	if err != nil {
		return nil, err
	}

	target := payment.RedirectTarget()
	if target == "" {
		return nil, apperrors.New(apperrors.ErrCodePaymentRedirectMissing, "Payment redirect is missing")
	}

	marker := models.PendingMarker{TgChatID: id, CreatedAt: s.now().UnixMilli()}
	if status != nil && status.Subscription != nil {
		expires := status.Subscription.ExpiresAt
		marker.BaselineExpiresAt = &expires
	}
	if err := s.markers.SavePending(ctx, id, marker); err != nil {
		return nil, apperrors.NewStoreError("save pending payment", err)
	}

	s.flows.set(id, req.Channel, models.StateAwaitingConfirmation, "")
	return &models.CreatePaymentResponse{
		Channel: req.Channel,
		State:   models.StateAwaitingConfirmation,
		Action:  models.Action{Kind: models.ActionOpenLink, URL: target},
	}, nil
}

func (s *paymentService) createStars(ctx context.Context, id int64, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	invoice, err := s.storefront.CreateStarsInvoice(ctx, vpnapi.InvoiceRequest{TgChatID: id, Plan: req.Plan, Devices: req.Devices})
	if err != nil {
		return nil, err
	}

	resp := &models.CreatePaymentResponse{
		Channel:     models.ChannelStars,
		State:       models.StateAwaitingConfirmation,
		Action:      models.Action{Kind: models.ActionOpenLink, URL: invoice.InvoiceLink},
		PaymentID:   invoice.PaymentID,
		StarsAmount: invoice.StarsAmount,
		PriceRub:    invoice.PriceRub,
	}

	// without the in-app invoice API the user pays in Telegram and the bot
	// activates the subscription
	if req.InvoiceSupported && invoice.PaymentID != "" {
		w := s.stars.register(id, invoice.PaymentID)
		started := s.poller.Start(id, RoleStars, func(ctx context.Context) {
			s.awaitStars(ctx, w, req)
		})
		if !started {
			s.stars.remove(w)
			return nil, apperrors.New(apperrors.ErrCodeInternal, "payment service is shutting down")
		}
		resp.Action.Kind = models.ActionOpenInvoice
	}

	s.flows.set(id, models.ChannelStars, models.StateAwaitingConfirmation, "")
	return resp, nil
}

func (s *paymentService) awaitStars(ctx context.Context, w *starsWaiter, req models.CreatePaymentRequest) {
	defer close(w.done)

	timer := time.NewTimer(s.settings.CryptoPollTimeout)
	defer timer.Stop()

	select {
	case status := <-w.results:
		w.state = s.resolveStars(ctx, w, req, status)
	case <-timer.C:
		s.stars.remove(w)
		w.state = models.StateAbandoned
		s.flows.set(w.identity, models.ChannelStars, models.StateAbandoned, "")
		s.logger.Info().Int64("identity", w.identity).Str("payment_id", w.paymentID).Msg("Stars invoice was not confirmed in time")
	case <-ctx.Done():
		s.stars.remove(w)
		w.state = models.StateAbandoned
	}
}

func (s *paymentService) resolveStars(ctx context.Context, w *starsWaiter, req models.CreatePaymentRequest, status string) models.State {
	if status != "paid" {
		s.flows.set(w.identity, models.ChannelStars, models.StateResolvedFailure, "invoice status: "+status)
		return models.StateResolvedFailure
	}

	_, err := s.storefront.ActivateSubscription(ctx, vpnapi.SubscribeRequest{
		TgChatID:      w.identity,
		Plan:          req.Plan,
		MaxDevices:    req.Devices,
		PaymentID:     w.paymentID,
		PaymentMethod: models.MethodStarsWebApp,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("identity", w.identity).Str("payment_id", w.paymentID).Msg("Failed to activate Stars subscription")
		s.flows.set(w.identity, models.ChannelStars, models.StateResolvedFailure, err.Error())
		return models.StateResolvedFailure
	}

	s.markJustActivated(ctx, w.identity)
	s.flows.set(w.identity, models.ChannelStars, models.StateResolvedSuccess, "")
	return models.StateResolvedSuccess
}

func (s *paymentService) ReportStarsStatus(ctx context.Context, identity int64, paymentID, status string) (*models.StarsStatusResponse, error) {
	w, ok := s.stars.take(identity, paymentID)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodePaymentNotPending, "Payment is not awaiting confirmation").
			WithDetail("payment_id", paymentID)
	}

	w.results <- status

	select {
	case <-w.done:
		return &models.StarsStatusResponse{PaymentID: paymentID, State: w.state}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *paymentService) createCrypto(ctx context.Context, id int64, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	invoice, err := s.storefront.CreateCryptoInvoice(ctx, vpnapi.InvoiceRequest{TgChatID: id, Plan: req.Plan, Devices: req.Devices})
	if err != nil {
		return nil, err
	}
	if invoice.InvoiceID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "Crypto invoice id is missing")
	}

	marker := models.CryptoMarker{
		InvoiceID: invoice.InvoiceID,
		TgChatID:  id,
		Plan:      req.Plan,
		Devices:   req.Devices,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.markers.SaveCrypto(ctx, id, marker); err != nil {
		return nil, apperrors.NewStoreError("save crypto payment", err)
	}
	s.startCryptoPolling(id, marker)

	amount := invoice.AmountUSDT
	return &models.CreatePaymentResponse{
		Channel:    models.ChannelCrypto,
		State:      models.StatePolling,
		Action:     models.Action{Kind: models.ActionOpenLink, URL: invoice.PayURL},
		InvoiceID:  invoice.InvoiceID,
		AmountUSDT: &amount,
		PriceRub:   invoice.PriceRub,
	}, nil
}

func (s *paymentService) startCryptoPolling(identity int64, marker models.CryptoMarker) bool {
	s.flows.set(identity, models.ChannelCrypto, models.StatePolling, "")
	return s.poller.Start(identity, RoleCrypto, func(ctx context.Context) {
		s.pollCrypto(ctx, identity, marker)
	})
}

// pollCrypto checks the invoice every interval until it is paid or the
// timeout, counted from the start of the loop, has passed. Tick errors are
// logged and the loop goes on.
func (s *paymentService) pollCrypto(ctx context.Context, identity int64, marker models.CryptoMarker) {
	log := s.logger.With().Int64("identity", identity).Int64("invoice_id", marker.InvoiceID).Logger()
	startedAt := s.now()

	ticker := time.NewTicker(s.settings.CryptoPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.now().Sub(startedAt) > s.settings.CryptoPollTimeout {
			if err := s.markers.DeleteCrypto(ctx, identity); err != nil {
				log.Warn().Err(err).Msg("Failed to delete crypto marker")
			}
			s.flows.set(identity, models.ChannelCrypto, models.StateAbandoned, "")
			log.Info().Msg("Crypto invoice polling timed out")
			return
		}

		paid, err := s.cryptoTick(ctx, identity, marker)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("Failed to process crypto payment")
			continue
		}
		if paid {
			log.Info().Msg("Crypto payment confirmed, subscription activated")
			return
		}
	}
}

func (s *paymentService) cryptoTick(ctx context.Context, identity int64, marker models.CryptoMarker) (bool, error) {
	status, err := s.storefront.CheckCryptoInvoice(ctx, vpnapi.CryptoCheckRequest{
		InvoiceID: marker.InvoiceID,
		TgChatID:  marker.TgChatID,
		Plan:      marker.Plan,
		Devices:   marker.Devices,
	})
	if err != nil {
		return false, err
	}
	if !status.Paid {
		return false, nil
	}

	if _, err := s.storefront.ActivateSubscription(ctx, vpnapi.SubscribeRequest{
		TgChatID:      marker.TgChatID,
		Plan:          marker.Plan,
		MaxDevices:    marker.Devices,
		PaymentID:     marker.PaymentID(),
		PaymentMethod: models.MethodCryptoWebApp,
	}); err != nil {
		return false, err
	}

	s.markJustActivated(ctx, identity)
	if err := s.markers.DeleteCrypto(ctx, identity); err != nil {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to delete crypto marker")
	}
	s.flows.set(identity, models.ChannelCrypto, models.StateResolvedSuccess, "")
	return true, nil
}

// markJustActivated writes a pending marker without a baseline so the home
// view re-reads the status once more.
func (s *paymentService) markJustActivated(ctx context.Context, identity int64) {
	marker := models.PendingMarker{TgChatID: identity, CreatedAt: s.now().UnixMilli()}
	if err := s.markers.SavePending(ctx, identity, marker); err != nil {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to save activation marker")
	}
}

func (s *paymentService) ResumeCrypto(ctx context.Context, identity int64) bool {
	if s.poller.Active(identity, RoleCrypto) {
		return true
	}

	marker, err := s.markers.GetCrypto(ctx, identity)
	switch {
	case errors.Is(err, models.ErrMarkerNotFound):
		return false
	case errors.Is(err, models.ErrMarkerMalformed):
		s.purgeCrypto(ctx, identity, "malformed")
		return false
	case err != nil:
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to read crypto marker")
		return false
	}

	if marker.TgChatID != identity {
		s.purgeCrypto(ctx, identity, "identity mismatch")
		return false
	}
	if s.now().Sub(marker.Created()) > s.settings.CryptoPollTimeout {
		s.purgeCrypto(ctx, identity, "stale")
		return false
	}

	return s.startCryptoPolling(identity, *marker)
}

func (s *paymentService) purgeCrypto(ctx context.Context, identity int64, reason string) {
	if err := s.markers.DeleteCrypto(ctx, identity); err != nil {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to delete crypto marker")
		return
	}
	s.logger.Debug().Int64("identity", identity).Str("reason", reason).Msg("Purged crypto marker")
}

func (s *paymentService) ResumePending(ctx context.Context, customer Customer) bool {
	id := customer.Identity
	if s.poller.Active(id, RolePending) {
		return true
	}

	marker, err := s.markers.GetPending(ctx, id)
	switch {
	case errors.Is(err, models.ErrMarkerNotFound):
		return false
	case errors.Is(err, models.ErrMarkerMalformed):
		s.purgePending(ctx, id, "malformed")
		return false
	case err != nil:
		s.logger.Warn().Err(err).Int64("identity", id).Msg("Failed to read pending marker")
		return false
	}

	if marker.TgChatID != id {
		s.purgePending(ctx, id, "identity mismatch")
		return false
	}
	deadline := marker.Created().Add(s.settings.PendingPollTimeout)
	if s.now().After(deadline) {
		s.purgePending(ctx, id, "stale")
		return false
	}

	return s.poller.Start(id, RolePending, func(ctx context.Context) {
		s.watchPending(ctx, customer, *marker, deadline)
	})
}

// watchPending re-reads the user status until a subscription newer than the
// marker's baseline shows up or the window closes. Either way the marker is
// removed.
func (s *paymentService) watchPending(ctx context.Context, customer Customer, marker models.PendingMarker, deadline time.Time) {
	id := customer.Identity

	ticker := time.NewTicker(s.settings.PendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.now().After(deadline) {
			s.purgePending(ctx, id, "window closed")
			s.flows.resolveAwaiting(id, models.StateAbandoned, models.ChannelSBP, models.ChannelCard)
			return
		}

		status, err := s.storefront.GetCachedUserStatus(ctx, id, customer.Username, refreshOptions...)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn().Err(err).Int64("identity", id).Msg("Failed to refresh user status")
			continue
		}

		if subscriptionChanged(status, marker) {
			s.purgePending(ctx, id, "subscription active")
			s.flows.resolveAwaiting(id, models.StateResolvedSuccess, models.ChannelSBP, models.ChannelCard)
			return
		}
	}
}

func subscriptionChanged(status *vpnapi.UserStatus, marker models.PendingMarker) bool {
	if status == nil || status.Subscription == nil {
		return false
	}
	if marker.BaselineExpiresAt == nil {
		return true
	}
	return status.Subscription.ExpiresAt != *marker.BaselineExpiresAt
}

func (s *paymentService) purgePending(ctx context.Context, identity int64, reason string) {
	if err := s.markers.DeletePending(ctx, identity); err != nil {
		s.logger.Warn().Err(err).Int64("identity", identity).Msg("Failed to delete pending marker")
		return
	}
	s.logger.Debug().Int64("identity", identity).Str("reason", reason).Msg("Purged pending marker")
}

func (s *paymentService) State(ctx context.Context, identity int64) (*models.StateResponse, error) {
	resp := &models.StateResponse{
		Flows:         s.flows.list(identity),
		Watching:      s.poller.Active(identity, RolePending),
		CryptoPolling: s.poller.Active(identity, RoleCrypto),
	}

	pending, err := s.markers.GetPending(ctx, identity)
	switch {
	case err == nil:
		resp.PendingPayment = pending
	case !errors.Is(err, models.ErrMarkerNotFound) && !errors.Is(err, models.ErrMarkerMalformed):
		return nil, apperrors.NewStoreError("read pending payment", err)
	}

	crypto, err := s.markers.GetCrypto(ctx, identity)
	switch {
	case err == nil:
		resp.PendingCrypto = crypto
	case !errors.Is(err, models.ErrMarkerNotFound) && !errors.Is(err, models.ErrMarkerMalformed):
		return nil, apperrors.NewStoreError("read crypto payment", err)
	}

	return resp, nil
}

func (s *paymentService) Shutdown() {
	s.poller.StopAll()
}
