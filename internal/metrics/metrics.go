package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query metrics
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds *prometheus.HistogramVec

	// Tier metrics
	TierAttemptsTotal   *prometheus.CounterVec
	TierDurationSeconds *prometheus.HistogramVec
	FallbacksTotal      *prometheus.CounterVec

	// Session metrics
	ActiveSessions  prometheus.Gauge
	SessionsEvicted prometheus.Counter
	SessionBusy     prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Catalog metrics
	CatalogSubjects prometheus.Gauge
	CatalogTopics   prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "studybuddy_queries_total",
				Help: "Total number of answered queries by intent, answering tier, and status",
			},
			[]string{"intent", "tier", "status"}, // status: success, empty, unavailable
		),

		QueryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studybuddy_query_duration_seconds",
				Help:    "End-to-end query resolution duration in seconds by answering tier",
				Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30}, // local answers are sub-ms, remote up to the tier timeout
			},
			[]string{"tier"},
		),

		TierAttemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "studybuddy_tier_attempts_total",
				Help: "Total tier invocations by tier and outcome",
			},
			[]string{"tier", "status"}, // status: success, empty, unavailable, skipped
		),

		TierDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studybuddy_tier_duration_seconds",
				Help:    "Single tier invocation duration in seconds",
				Buckets: []float64{0.05, 0.25, 0.5, 1, 2.5, 5, 10}, // bounded by the per-tier timeout
			},
			[]string{"tier"},
		),

		FallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "studybuddy_fallbacks_total",
				Help: "Total fall-throughs from one tier to the next",
			},
			[]string{"from", "to"},
		),

		ActiveSessions: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "studybuddy_active_sessions",
				Help: "Number of live conversation sessions",
			},
		),

		SessionsEvicted: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "studybuddy_sessions_evicted_total",
				Help: "Total sessions evicted by the store's LRU policy",
			},
		),

		SessionBusy: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "studybuddy_session_busy_total",
				Help: "Total queries rejected because the session had one in flight",
			},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "studybuddy_http_errors_total",
				Help: "Total HTTP errors by type and route",
			},
			[]string{"error_type", "route"}, // error_type: bad_request, rate_limit, internal
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "studybuddy_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: client, global
		),

		CatalogSubjects: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "studybuddy_catalog_subjects",
				Help: "Number of subjects loaded into the catalog",
			},
		),

		CatalogTopics: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "studybuddy_catalog_topics",
				Help: "Number of topics loaded into the catalog",
			},
		),
	}

	return m
}

// RecordQuery records one resolved query.
func (m *Metrics) RecordQuery(intent, tier, status string, duration float64) {
	m.QueriesTotal.WithLabelValues(intent, tier, status).Inc()
	m.QueryDurationSeconds.WithLabelValues(tier).Observe(duration)
}

// RecordTierAttempt records one tier invocation.
func (m *Metrics) RecordTierAttempt(tier, status string, duration float64) {
	m.TierAttemptsTotal.WithLabelValues(tier, status).Inc()
	m.TierDurationSeconds.WithLabelValues(tier).Observe(duration)
}

// RecordTierSkipped records an unconfigured tier being skipped.
func (m *Metrics) RecordTierSkipped(tier string) {
	m.TierAttemptsTotal.WithLabelValues(tier, "skipped").Inc()
}

// RecordFallback records a fall-through between tiers.
func (m *Metrics) RecordFallback(from, to string) {
	m.FallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordSessionBusy records a query rejected by the in-flight guard.
func (m *Metrics) RecordSessionBusy() {
	m.SessionBusy.Inc()
}

// RecordSessionEvicted records an LRU session eviction.
func (m *Metrics) RecordSessionEvicted() {
	m.SessionsEvicted.Inc()
}

// SetActiveSessions updates the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, route string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, route).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetCatalogSize updates the catalog gauges after a load.
func (m *Metrics) SetCatalogSize(subjects, topics int) {
	m.CatalogSubjects.Set(float64(subjects))
	m.CatalogTopics.Set(float64(topics))
}
