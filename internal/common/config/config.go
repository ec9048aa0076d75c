package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:5173"`
	}

	// Адреса VPN-бэкенда
	API struct {
		// Явный адрес API, используется без запасных вариантов
		BaseURL string `env:"API_BASE_URL"`
		// Запасной адрес, если same-origin недоступен
		FallbackURL string `env:"API_FALLBACK_URL" envDefault:"https://psychoware.website"`
		// Origin, с которого отдается Mini App; пустой кандидат резолвится относительно него
		PageOrigin string        `env:"API_PAGE_ORIGIN"`
		Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	}

	Store struct {
		Driver   string `env:"STORE_DRIVER" envDefault:"redis"` // redis, file, memory
		FilePath string `env:"STORE_FILE_PATH" envDefault:"storefront-state.json"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Cache struct {
		UserStatusMaxAge time.Duration `env:"CACHE_USER_STATUS_MAX_AGE" envDefault:"60s"`
		PlansMaxAge      time.Duration `env:"CACHE_PLANS_MAX_AGE" envDefault:"12h"`
		// Период фонового обновления каталога тарифов, 0 отключает
		PlansWarmInterval time.Duration `env:"CACHE_PLANS_WARM_INTERVAL" envDefault:"1h"`
	}

	Payments struct {
		CryptoPollInterval  time.Duration `env:"CRYPTO_POLL_INTERVAL" envDefault:"6s"`
		CryptoPollTimeout   time.Duration `env:"CRYPTO_POLL_TIMEOUT" envDefault:"5m"`
		PendingPollInterval time.Duration `env:"PENDING_POLL_INTERVAL" envDefault:"5s"`
		PendingPollTimeout  time.Duration `env:"PENDING_POLL_TIMEOUT" envDefault:"60s"`
	}

	Telegram struct {
		// Без токена init data не проверяется, только разбирается
		BotToken    string        `env:"BOT_TOKEN"`
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
		BotLink     string        `env:"BOT_LINK" envDefault:"https://t.me/psychowarevpnxbot"`
	}

	Links struct {
		SubsLinkGate string `env:"SUBS_LINK_GATE" envDefault:"https://subs.psychoware.ru/url?url="`
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env может отсутствовать: в production переменные задаются напрямую
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store.Driver {
	case "redis", "file", "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// RedisAddr returns host:port of the configured redis instance.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
