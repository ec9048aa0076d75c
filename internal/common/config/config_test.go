package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://psychoware.website", cfg.API.FallbackURL)
	assert.Equal(t, 60*time.Second, cfg.Cache.UserStatusMaxAge)
	assert.Equal(t, 12*time.Hour, cfg.Cache.PlansMaxAge)
	assert.Equal(t, time.Hour, cfg.Cache.PlansWarmInterval)
	assert.Equal(t, 6*time.Second, cfg.Payments.CryptoPollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Payments.CryptoPollTimeout)
	assert.Equal(t, 5*time.Second, cfg.Payments.PendingPollInterval)
	assert.Equal(t, 60*time.Second, cfg.Payments.PendingPollTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("CRYPTO_POLL_INTERVAL", "250ms")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "https://api.example.com/", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Payments.CryptoPollInterval)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "etcd")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("API_TIMEOUT", "ten seconds")

	_, err := Load()
	require.Error(t, err)
}
