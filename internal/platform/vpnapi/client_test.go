package vpnapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vpn-storefront/internal/common/errors"
)

func statusServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestResolveCandidates(t *testing.T) {
	tests := []struct {
		name               string
		override, fallback string
		pageOrigin         string
		want               []string
	}{
		{"override wins", " https://api.example.com/// ", "https://fb.example.com", "https://app.example.com", []string{"https://api.example.com"}},
		{"localhost", "", "", "http://localhost:5173", []string{"", LocalFallback}},
		{"loopback ip", "", "https://fb.example.com", "http://127.0.0.1:3000", []string{"", LocalFallback}},
		{"remote host custom fallback", "", "https://fb.example.com/", "https://app.example.com", []string{"", "https://fb.example.com"}},
		{"remote host default fallback", "", "", "https://app.example.com", []string{"", RemoteFallback}},
		{"no page origin", "", "", "", []string{RemoteFallback}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCandidates(tt.override, tt.fallback, tt.pageOrigin))
		})
	}
}

func TestRequestFallsBackOnRetryableStatus(t *testing.T) {
	first, firstHits := statusServer(t, http.StatusServiceUnavailable, "maintenance")
	second, secondHits := statusServer(t, http.StatusOK, `{"plans":[]}`)

	c := NewClient([]string{"", second.URL}, first.URL)
	plans, err := c.GetPlans(context.Background())
	require.NoError(t, err)

	assert.Empty(t, plans.Plans)
	assert.EqualValues(t, 1, atomic.LoadInt32(firstHits))
	assert.EqualValues(t, 1, atomic.LoadInt32(secondHits))
}

func TestRequestFailsImmediatelyOnNonRetryableStatus(t *testing.T) {
	first, _ := statusServer(t, http.StatusUnauthorized, "nope")
	second, secondHits := statusServer(t, http.StatusOK, `{"plans":[]}`)

	c := NewClient([]string{"", second.URL}, first.URL)
	_, err := c.GetPlans(context.Background())
	require.Error(t, err)

	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "API request failed: 401 nope")
	assert.Zero(t, atomic.LoadInt32(secondHits))
}

func TestRequestLastCandidateErrorIsReturned(t *testing.T) {
	first, _ := statusServer(t, http.StatusBadGateway, "")
	second, _ := statusServer(t, http.StatusGatewayTimeout, "")

	c := NewClient([]string{first.URL, second.URL}, "")
	_, err := c.GetPlans(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, apperrors.StatusOf(err))
}

func TestRequestInvalidJSONIsRetryable(t *testing.T) {
	first, _ := statusServer(t, http.StatusOK, `{"plans": [`)
	second, secondHits := statusServer(t, http.StatusOK, `{"plans":[{"plan":"1m","days":30,"prices":{"3":99}}]}`)

	c := NewClient([]string{first.URL, second.URL}, "")
	plans, err := c.GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans.Plans, 1)
	assert.Equal(t, Plan1M, plans.Plans[0].Plan)
	assert.EqualValues(t, 1, atomic.LoadInt32(secondHits))
}

func TestRequestInvalidJSONOnLastCandidate(t *testing.T) {
	long := "{" + strings.Repeat("x", 400)
	only, _ := statusServer(t, http.StatusOK, long)

	c := NewClient([]string{only.URL}, "")
	_, err := c.GetPlans(context.Background())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstreamInvalidJSON, appErr.Code)
	assert.Contains(t, appErr.Message, "Raw: "+long[:160])
	assert.NotContains(t, appErr.Message, long[:161])
}

func TestRequestHTMLBodyIsFlagged(t *testing.T) {
	only, _ := statusServer(t, http.StatusOK, "  <!doctype html><html><body>SPA</body></html>")

	c := NewClient([]string{only.URL}, "")
	_, err := c.GetPlans(context.Background())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstreamNonJSON, appErr.Code)
	assert.Equal(t, true, appErr.Details["html"])
	assert.Contains(t, appErr.Message, "[HTML detected]")
}

func TestRequestPlainTextIsNotHTML(t *testing.T) {
	only, _ := statusServer(t, http.StatusOK, "ok")

	c := NewClient([]string{only.URL}, "")
	_, err := c.GetPlans(context.Background())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, false, appErr.Details["html"])
}

func TestRequestHTMLFromSameOriginFallsBack(t *testing.T) {
	spa, _ := statusServer(t, http.StatusOK, "<html>index</html>")
	api, _ := statusServer(t, http.StatusOK, `{"plans":[]}`)

	c := NewClient([]string{"", api.URL}, spa.URL)
	_, err := c.GetPlans(context.Background())
	require.NoError(t, err)
}

func TestRequestUnreachableCandidateFallsBack(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	api, _ := statusServer(t, http.StatusOK, `{"plans":[]}`)

	c := NewClient([]string{deadURL, api.URL}, "")
	_, err := c.GetPlans(context.Background())
	require.NoError(t, err)
}

func TestRequestHeadersMerge(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, "")
	h := http.Header{}
	h.Set("X-Trace", "abc")
	require.NoError(t, c.Request(context.Background(), http.MethodGet, "/x", nil, h, &struct{}{}))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "abc", got.Get("X-Trace"))

	h.Set("Content-Type", "text/plain")
	require.NoError(t, c.Request(context.Background(), http.MethodGet, "/x", nil, h, &struct{}{}))
	assert.Equal(t, "text/plain", got.Get("Content-Type"))
}

func TestRequestWithoutCandidates(t *testing.T) {
	c := NewClient(nil, "")
	err := c.Request(context.Background(), http.MethodGet, "/api/plans", nil, nil, nil)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRequestFailed, appErr.Code)
}

func TestEnsureUserStatusRegistersOn404(t *testing.T) {
	var (
		mu         sync.Mutex
		calls      []string
		regBody    RegisterRequest
		registered bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/register":
			_ = json.NewDecoder(r.Body).Decode(&regBody)
			registered = true
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"ok":true}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/660741573":
			if !registered {
				http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"tg_chat_id":660741573,"has_subscription":false,"subscription":null,"sub_url":""}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	username := "psycho"
	c := NewClient([]string{srv.URL}, "")
	status, err := c.EnsureUserStatus(context.Background(), 660741573, &username)
	require.NoError(t, err)

	assert.EqualValues(t, 660741573, status.TgChatID)
	assert.Equal(t, []string{"GET /api/user/660741573", "POST /api/register", "GET /api/user/660741573"}, calls)
	assert.EqualValues(t, 660741573, regBody.TgChatID)
	require.NotNil(t, regBody.TgUsername)
	assert.Equal(t, "psycho", *regBody.TgUsername)
}

func TestEnsureUserStatusPropagatesOtherErrors(t *testing.T) {
	srv, hits := statusServer(t, http.StatusInternalServerError, "db down")

	c := NewClient([]string{srv.URL}, "")
	_, err := c.EnsureUserStatus(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestRedirectTargetPriority(t *testing.T) {
	assert.Equal(t, "", (*PlategaResponse)(nil).RedirectTarget())
	assert.Equal(t, "", (&PlategaResponse{}).RedirectTarget())
	assert.Equal(t, "l", (&PlategaResponse{Link: "l"}).RedirectTarget())
	assert.Equal(t, "u", (&PlategaResponse{URL: "u", Link: "l"}).RedirectTarget())
	assert.Equal(t, "p", (&PlategaResponse{PaymentURL: "p", URL: "u"}).RedirectTarget())
	assert.Equal(t, "ru", (&PlategaResponse{RedirectURL: "ru", PaymentURL: "p"}).RedirectTarget())
	assert.Equal(t, "r", (&PlategaResponse{Redirect: "r", RedirectURL: "ru"}).RedirectTarget())

	var decoded PlategaResponse
	require.NoError(t, json.Unmarshal([]byte(`{"paymentUrl":"https://pay/1","link":"https://pay/2"}`), &decoded))
	assert.Equal(t, "https://pay/1", decoded.RedirectTarget())
}

func TestRegisterAcceptsEmptyBody(t *testing.T) {
	srv, _ := statusServer(t, http.StatusOK, "")
	c := NewClient([]string{srv.URL}, "")
	require.NoError(t, c.Register(context.Background(), 5, nil))
}

func TestMetricLabels(t *testing.T) {
	assert.Equal(t, "/api/user/:id", metricPath("/api/user/660741573"))
	assert.Equal(t, "/api/plans", metricPath("/api/plans"))

	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "502", outcome(apperrors.NewUpstreamStatusError(502, "")))
	assert.Equal(t, "upstream_unavailable", outcome(apperrors.New(apperrors.ErrCodeUpstreamUnavailable, "down")))
}
