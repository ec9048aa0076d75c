package vpnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/common/metrics"
)

const rawExcerptLimit = 160

// retryableStatuses move the request on to the next candidate base URL.
var retryableStatuses = map[int]struct{}{
	http.StatusNotFound:            {},
	http.StatusMethodNotAllowed:    {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// Client talks to the VPN backend, trying candidate base URLs in order.
type Client struct {
	candidates []string
	pageOrigin string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client. pageOrigin resolves the empty (same-origin)
// candidate.
func NewClient(candidates []string, pageOrigin string, opts ...Option) *Client {
	c := &Client{
		candidates: append([]string(nil), candidates...),
		pageOrigin: trimBase(pageOrigin),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

// Request sends one logical request. Candidates are tried sequentially; a
// candidate failure moves on only when it is retryable and not the last one.
// With out == nil a successful empty body is accepted.
func (c *Client) Request(ctx context.Context, method, path string, body any, header http.Header, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "encode request body")
		}
	}

	var lastErr error
	for i, base := range c.candidates {
		isLast := i == len(c.candidates)-1
		target := c.resolve(base, path)

		start := time.Now()
		err := c.attempt(ctx, method, target, payload, header, out)
		observe(path, start, err)
		if err == nil {
			return nil
		}
		lastErr = err
		if isLast || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		c.logger.Debug().Err(err).Str("url", target).Msg("API candidate failed, trying next")
	}

	if lastErr != nil {
		return lastErr
	}
	return apperrors.New(apperrors.ErrCodeRequestFailed, "API request failed")
}

func (c *Client) resolve(base, path string) string {
	if base == "" {
		return c.pageOrigin + path
	}
	return base + path
}

func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, header http.Header, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstreamUnavailable, "build API request").
			WithDetail("url", target)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstreamUnavailable, "API unreachable").
			WithDetail("url", target)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstreamUnavailable, "read API response").
			WithDetail("url", target)
	}
	bodyText := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewUpstreamStatusError(resp.StatusCode, bodyText).WithDetail("url", target)
	}

	trimmed := strings.TrimSpace(bodyText)
	if out == nil && trimmed == "" {
		return nil
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	likelyJSON := strings.Contains(contentType, "application/json") ||
		strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
	if likelyJSON {
		dst := out
		if dst == nil {
			dst = new(json.RawMessage)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeUpstreamInvalidJSON,
				"Invalid JSON from API (%s). Raw: %s", target, excerpt(trimmed)).
				WithDetail("url", target)
		}
		return nil
	}

	looksLikeHTML := strings.HasPrefix(trimmed, "<")
	msg := fmt.Sprintf("API returned non-JSON response (%s)", target)
	if looksLikeHTML {
		msg += " [HTML detected]"
	}
	return apperrors.New(apperrors.ErrCodeUpstreamNonJSON, msg+": "+excerpt(trimmed)).
		WithDetail("url", target).
		WithDetail("html", looksLikeHTML)
}

func observe(path string, start time.Time, err error) {
	label := metricPath(path)
	metrics.VPNAPIRequestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.VPNAPIRequestsTotal.WithLabelValues(label, outcome(err)).Inc()
}

// metricPath folds numeric path segments so per-user paths share a label.
func metricPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" && strings.Trim(seg, "0123456789-") == "" {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "error"
	}
	if appErr.Code == apperrors.ErrCodeUpstreamStatus {
		return strconv.Itoa(appErr.Status)
	}
	return strings.ToLower(string(appErr.Code))
}

func isRetryable(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case apperrors.ErrCodeUpstreamStatus:
		_, ok := retryableStatuses[appErr.Status]
		return ok
	case apperrors.ErrCodeUpstreamInvalidJSON, apperrors.ErrCodeUpstreamNonJSON, apperrors.ErrCodeUpstreamUnavailable:
		return true
	}
	return false
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) > rawExcerptLimit {
		return string(r[:rawExcerptLimit])
	}
	return s
}
