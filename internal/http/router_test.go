package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpn-storefront/internal/common/config"
	"vpn-storefront/internal/common/metrics"
	"vpn-storefront/internal/common/middleware"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/whoami", func(c *gin.Context) {
		id, _ := middleware.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Origin = "https://app.example"
	return cfg
}

func initData() string {
	v := url.Values{}
	v.Set("user", `{"id":660741573}`)
	v.Set("auth_date", "1700000000")
	v.Set("hash", "abc")
	return v.Encode()
}

const botToken = "123456:SECRET"

// signedInitData signs the values with the bot token the way Telegram does.
func signedInitData(userJSON string) string {
	v := url.Values{}
	v.Set("user", userJSON)
	v.Set("auth_date", "1700000000")

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+v.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	v.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return v.Encode()
}

func signedConfig() *config.Config {
	cfg := testConfig()
	cfg.Telegram.BotToken = botToken
	return cfg
}

func TestRouterResolvesIdentity(t *testing.T) {
	r := NewRouter(testConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.InitDataHeader, initData())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":660741573}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterReadsPageURLFallback(t *testing.T) {
	r := NewRouter(testConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.PageURLHeader, "https://app.example/tariffs?tgWebAppData="+url.QueryEscape(initData()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":660741573}`, w.Body.String())
}

func TestRouterRequiresIdentity(t *testing.T) {
	r := NewRouter(testConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "IDENTITY_MISSING")
}

func TestRouterRejectsBadSignature(t *testing.T) {
	cfg := testConfig()
	cfg.Telegram.BotToken = "123:secret"
	r := NewRouter(cfg, zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.InitDataHeader, initData())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(testConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil)
	req.Header.Set(middleware.InitDataHeader, initData())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestHealth(t *testing.T) {
	ok := ReadinessCheck{Name: "store", Check: func(context.Context) error { return nil }}
	r := NewRouter(testConfig(), zerolog.Nop(), nil, ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	down := ReadinessCheck{Name: "redis", Check: func(context.Context) error { return stderrors.New("dial tcp: refused") }}
	r = NewRouter(testConfig(), zerolog.Nop(), nil, ok, down)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis unavailable")
}

func TestLive(t *testing.T) {
	r := NewRouter(testConfig(), zerolog.Nop(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitMetrics()
	r := NewRouter(testConfig(), zerolog.Nop(), nil)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/live",status="200"}`)
}

func TestRouterAcceptsSignedInitData(t *testing.T) {
	r := NewRouter(signedConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.InitDataHeader, signedInitData(`{"id":660741573}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":660741573}`, w.Body.String())
}

func TestRouterAcceptsSignedPageURL(t *testing.T) {
	r := NewRouter(signedConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.PageURLHeader,
		"https://app.example/?tgWebAppData="+url.QueryEscape(signedInitData(`{"id":660741573}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":660741573}`, w.Body.String())
}

func TestRouterRejectsForgedPageURL(t *testing.T) {
	r := NewRouter(signedConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	forged := url.Values{}
	forged.Set("user", `{"id":999}`)
	forged.Set("hash", "forged")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.PageURLHeader, "https://app.example/?tgWebAppData="+url.QueryEscape(forged.Encode()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "999")
}

func TestRouterRequiresInitDataWhenTokenSet(t *testing.T) {
	r := NewRouter(signedConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Referer", "https://app.example/tariffs")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRouterIgnoresUnsignedSourcesNextToSignedHeader(t *testing.T) {
	r := NewRouter(signedConfig(), zerolog.Nop(), []RouteRegistrar{echoHandler{}})

	forged := url.Values{}
	forged.Set("user", `{"id":999}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set(middleware.InitDataHeader, signedInitData(`{"id":660741573}`))
	req.Header.Set(middleware.PageURLHeader, "https://app.example/?tgWebAppData="+url.QueryEscape(forged.Encode()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":660741573}`, w.Body.String())
}
