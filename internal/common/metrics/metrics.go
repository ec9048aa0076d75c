package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Запросы к VPN API, по одному на каждого опрошенного кандидата
	VPNAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpn_api_requests_total",
			Help: "Total number of VPN API attempts per candidate",
		},
		[]string{"path", "outcome"},
	)
	VPNAPIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vpn_api_request_duration_seconds",
			Help: "Duration of VPN API attempts in seconds",
		},
		[]string{"path"},
	)

	// Кэш: fresh, refreshed, stale, miss
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_lookups_total",
			Help: "Cache lookups by resource and result",
		},
		[]string{"resource", "result"},
	)

	// Платежи
	PaymentFlowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_flow_transitions_total",
			Help: "Payment flow state transitions by channel",
		},
		[]string{"channel", "state"},
	)
	PaymentPollersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_pollers_active",
			Help: "Number of running payment polling loops",
		},
		[]string{"role"},
	)

	PlansRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plans_warm_refresh_total",
			Help: "Background plan catalog refreshes by result",
		},
		[]string{"result"},
	)
)

var initOnce sync.Once

// InitMetrics registers all collectors with the default registry, which
// already carries the Go and process collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(HTTPRequestsInFlight)

		prometheus.MustRegister(VPNAPIRequestsTotal)
		prometheus.MustRegister(VPNAPIRequestDuration)
		prometheus.MustRegister(CacheLookupsTotal)

		prometheus.MustRegister(PaymentFlowsTotal)
		prometheus.MustRegister(PaymentPollersActive)
		prometheus.MustRegister(PlansRefreshTotal)
	})
}
