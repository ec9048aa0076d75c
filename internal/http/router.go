package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vpn-storefront/internal/common/config"
	"vpn-storefront/internal/common/middleware"
	"vpn-storefront/internal/identity"
)

const serviceName = "vpn-storefront"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter builds the gin engine with middleware, feature routes and health endpoints.
func NewRouter(cfg *config.Config, logger zerolog.Logger, handlers []RouteRegistrar, checks ...ReadinessCheck) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Errors(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Accept", "X-Request-ID",
		middleware.InitDataHeader, middleware.PageURLHeader,
	}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(
		middleware.TelegramInitData(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL, identity.NewReader(logger), logger),
		middleware.RequireIdentity(),
	)
	for _, h := range handlers {
		h.RegisterRoutes(v1)
	}

	// Readiness
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   check.Name + " unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	// Liveness
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
