package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics exposed by the authorization engine.
type Metrics struct {
	// Permission check metrics
	ChecksTotal   *prometheus.CounterVec
	CheckDuration prometheus.Histogram

	// Decision cache metrics
	DecisionCacheHits   prometheus.Counter
	DecisionCacheMisses prometheus.Counter

	// Role catalog cache metrics
	RoleCacheHits        prometheus.Counter
	RoleCacheMisses      prometheus.Counter
	RoleCacheRefreshes   prometheus.Counter
	RoleCacheFailures    prometheus.Counter
	RoleCacheSize        prometheus.Gauge
	RoleCacheLastRefresh prometheus.Gauge

	// Role resolution metrics
	RoleFallbacksTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all engine metrics on the given registry.
// A nil registry gets a fresh private one, which keeps test instances isolated.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_checks_total",
				Help: "Total number of permission checks by decision outcome",
			},
			[]string{"outcome", "granted"},
		),
		CheckDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authz_check_duration_seconds",
				Help:    "Permission check duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
			},
		),
		DecisionCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_decision_cache_hits_total",
				Help: "Total number of decision cache hits",
			},
		),
		DecisionCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_decision_cache_misses_total",
				Help: "Total number of decision cache misses",
			},
		),
		RoleCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_role_cache_hits_total",
				Help: "Total number of role catalog reads served from the in-memory snapshot",
			},
		),
		RoleCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_role_cache_misses_total",
				Help: "Total number of role catalog reads that required a backing-store fetch",
			},
		),
		RoleCacheRefreshes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_role_cache_refreshes_total",
				Help: "Total number of successful role catalog refreshes",
			},
		),
		RoleCacheFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_role_cache_failures_total",
				Help: "Total number of failed role catalog fetches",
			},
		),
		RoleCacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "authz_role_cache_size",
				Help: "Number of roles in the current catalog snapshot",
			},
		),
		RoleCacheLastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "authz_role_cache_last_refresh_timestamp_seconds",
				Help: "Unix timestamp of the last successful role catalog refresh",
			},
		),
		RoleFallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_role_fallbacks_total",
				Help: "Total number of role resolutions that returned a fallback value",
			},
			[]string{"operation"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.ChecksTotal,
		m.CheckDuration,
		m.DecisionCacheHits,
		m.DecisionCacheMisses,
		m.RoleCacheHits,
		m.RoleCacheMisses,
		m.RoleCacheRefreshes,
		m.RoleCacheFailures,
		m.RoleCacheSize,
		m.RoleCacheLastRefresh,
		m.RoleFallbacksTotal,
	)

	return m
}

// Handler returns an HTTP handler serving this metrics registry, for hosts
// that expose a scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCheck records one permission check. Safe to call on a nil receiver
// so components can treat metrics as optional.
func (m *Metrics) ObserveCheck(outcome string, granted bool, seconds float64) {
	if m == nil {
		return
	}
	grantedLabel := "false"
	if granted {
		grantedLabel = "true"
	}
	m.ChecksTotal.WithLabelValues(outcome, grantedLabel).Inc()
	m.CheckDuration.Observe(seconds)
}
