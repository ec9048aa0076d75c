package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "vpn-storefront/docs"
	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/common/config"
	"vpn-storefront/internal/common/logger"
	"vpn-storefront/internal/common/metrics"
	accounthttp "vpn-storefront/internal/features/account/delivery/http"
	accountservice "vpn-storefront/internal/features/account/service"
	paymenthttp "vpn-storefront/internal/features/payment/delivery/http"
	markerrepo "vpn-storefront/internal/features/payment/repository/kv"
	paymentservice "vpn-storefront/internal/features/payment/service"
	prefhttp "vpn-storefront/internal/features/preferences/delivery/http"
	prefservice "vpn-storefront/internal/features/preferences/service"
	tariffhttp "vpn-storefront/internal/features/tariffs/delivery/http"
	tariffservice "vpn-storefront/internal/features/tariffs/service"
	apphttp "vpn-storefront/internal/http"
	"vpn-storefront/internal/platform/kvstore"
	"vpn-storefront/internal/platform/redis"
	"vpn-storefront/internal/platform/vpnapi"
	"vpn-storefront/internal/service/storefront"
	"vpn-storefront/internal/workers"
)

// @title           VPN Storefront API
// @version         1.0
// @description     Backend for the VPN storefront Telegram Mini App. Every endpoint requires Telegram init data.

// @contact.name   Support
// @contact.url    https://t.me/psychowaresupportxbot

// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Telegram Mini App init data

// @tag.name account
// @tag.description Home, connect and cabinet pages

// @tag.name tariffs
// @tag.description Plan catalog

// @tag.name payments
// @tag.description СБП, card, Telegram Stars and CryptoBot payments

// @tag.name preferences
// @tag.description Theme, onboarding and tab navigation

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init("vpn-storefront", cfg.Debug)
	log.Info().Bool("debug", cfg.Debug).Str("store", cfg.Store.Driver).Msg("Starting VPN storefront")

	metrics.InitMetrics()

	ctx := context.Background()

	store, checks, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	candidates := vpnapi.ResolveCandidates(cfg.API.BaseURL, cfg.API.FallbackURL, cfg.API.PageOrigin)
	client := vpnapi.NewClient(candidates, cfg.API.PageOrigin,
		vpnapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		vpnapi.WithLogger(logger.Component("vpnapi")),
	)
	log.Info().Strs("candidates", client.Candidates()).Msg("VPN API client initialized")

	cacheService := cache.NewCacheService(store,
		cache.WithLogger(logger.Component("cache")),
		cache.WithMemoryRetention(max(cfg.Cache.UserStatusMaxAge, cfg.Cache.PlansMaxAge)),
	)
	front := storefront.NewService(client, cacheService,
		storefront.WithMaxAges(cfg.Cache.UserStatusMaxAge, cfg.Cache.PlansMaxAge),
		storefront.WithLogger(logger.Component("storefront")),
	)

	paymentSvc := paymentservice.NewPaymentService(front, markerrepo.NewMarkerRepository(store),
		paymentservice.Settings{
			CryptoPollInterval:  cfg.Payments.CryptoPollInterval,
			CryptoPollTimeout:   cfg.Payments.CryptoPollTimeout,
			PendingPollInterval: cfg.Payments.PendingPollInterval,
			PendingPollTimeout:  cfg.Payments.PendingPollTimeout,
		},
		paymentservice.WithLogger(logger.Component("payments")),
	)
	accountSvc := accountservice.NewAccountService(front, paymentSvc, logger.Component("account"),
		accountservice.WithLinks(cfg.Telegram.BotLink, cfg.Links.SubsLinkGate),
	)
	tariffSvc := tariffservice.NewTariffService(front, paymentSvc, logger.Component("tariffs"))
	prefSvc := prefservice.NewPreferencesService(store, logger.Component("preferences"))

	log.Info().Msg("Services initialized")

	warmer := workers.NewPlansWarmer(front, cfg.Cache.PlansWarmInterval, logger.Component("plans-warmer"))
	warmer.Start()

	router := apphttp.NewRouter(cfg, log, []apphttp.RouteRegistrar{
		accounthttp.NewAccountHandler(accountSvc),
		tariffhttp.NewTariffHandler(tariffSvc),
		paymenthttp.NewPaymentHandler(paymentSvc),
		prefhttp.NewPreferencesHandler(prefSvc),
	}, checks...)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	warmer.Stop()
	paymentSvc.Shutdown()

	log.Info().Msg("Server exited")
}

// openStore picks the persistent store by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, []apphttp.ReadinessCheck, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := []apphttp.ReadinessCheck{{Name: "redis", Check: client.HealthCheck}}
		return kvstore.NewRedis(client.Client), checks, func() { _ = client.Close() }, nil
	case "file":
		store, err := kvstore.NewFile(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() {}, nil
	default:
		return kvstore.NewMemory(), nil, func() {}, nil
	}
}
