package vitrine

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gobreaker "github.com/sony/gobreaker/v2"
)

const metricsNamespace = "vitrine"

// Metrics owns a private registry so several Apps can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec
	adminUpdates     *prometheus.CounterVec
}

// NewMetrics registers the vitrine collectors plus Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "places_requests_total",
			Help:      "Upstream Places API calls by adapter and outcome.",
		}, []string{"api", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "places_request_duration_seconds",
			Help:      "Upstream Places API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "places_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"breaker"}),
		adminUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "config_updates_total",
			Help:      "POST /api/config attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamCalls,
		m.upstreamDuration,
		m.breakerState,
		m.adminUpdates,
	)
	return m
}

// UpstreamCall implements reviews.Observer.
func (m *Metrics) UpstreamCall(api, outcome string, elapsed time.Duration) {
	m.upstreamCalls.WithLabelValues(api, outcome).Inc()
	m.upstreamDuration.WithLabelValues(api).Observe(elapsed.Seconds())
}

// BreakerState implements reviews.Observer.
func (m *Metrics) BreakerState(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	m.breakerState.WithLabelValues(name).Set(v)
}

func (m *Metrics) adminUpdate(result string) {
	m.adminUpdates.WithLabelValues(result).Inc()
}

// Middleware records per-route request counts and latency.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: m.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

// Handler serves the registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Registry})
}
