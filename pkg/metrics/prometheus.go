// Package metrics provides Prometheus metrics for the matching service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matching service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Match pipeline
	matchesTotal     prometheus.Counter
	matchesDegraded  prometheus.Counter
	matchLatency     prometheus.Histogram
	componentLatency *prometheus.HistogramVec

	// Route cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheCoalesced prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Route provider + fallback chain
	providerCalls     prometheus.Counter
	providerErrors    *prometheus.CounterVec
	fallbackEstimates prometheus.Counter
	circuitState      prometheus.Gauge

	// Transport batches
	batchesTotal      prometheus.Counter
	batchSize         prometheus.Histogram
	batchLatency      prometheus.Histogram
	batchJobsDegraded prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nextvision",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_total",
		Help:      "Total number of match computations",
	})

	m.matchesDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_degraded_total",
		Help:      "Match computations that used fallback or default component values",
	})

	m.matchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_latency_milliseconds",
		Help:      "End-to-end match computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.componentLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "component_latency_milliseconds",
			Help:      "Per-component scoring latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component"},
	)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_cache_hits_total",
		Help:      "Route cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_cache_misses_total",
		Help:      "Route cache misses",
	})

	m.cacheCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_cache_coalesced_total",
		Help:      "Route lookups served by an in-flight identical call",
	})

	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_cache_evictions_total",
		Help:      "Route cache entries evicted by the capacity bound",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_cache_size",
		Help:      "Current number of route cache entries",
	})

	m.providerCalls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_calls_total",
		Help:      "Calls issued to the external route provider",
	})

	m.providerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_errors_total",
			Help:      "Route provider failures by error kind",
		},
		[]string{"kind"},
	)

	m.fallbackEstimates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_estimates_total",
		Help:      "Route results produced by the fallback estimator",
	})

	m.circuitState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "circuit_state",
		Help:      "Route provider circuit state (0 closed, 1 open, 2 half-open)",
	})

	m.batchesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transport_batches_total",
		Help:      "Transport batch computations",
	})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transport_batch_size",
		Help:      "Number of jobs per transport batch",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
	})

	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transport_batch_latency_milliseconds",
		Help:      "Transport batch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchJobsDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transport_batch_jobs_degraded_total",
		Help:      "Batch jobs replaced by the conservative default score",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordMatch records one finished match computation.
func RecordMatch(elapsed time.Duration) {
	globalManager.matchesTotal.Inc()
	globalManager.matchLatency.Observe(float64(elapsed.Milliseconds()))
}

// RecordMatchDegraded records a match that used fallback values.
func RecordMatchDegraded() {
	globalManager.matchesDegraded.Inc()
}

// RecordComponentLatency records one component's scoring latency.
func RecordComponentLatency(component string, elapsed time.Duration) {
	globalManager.componentLatency.WithLabelValues(component).Observe(float64(elapsed.Milliseconds()))
}

// RecordCacheHit records a route cache hit.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss records a route cache miss.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheCoalesced records a coalesced route lookup.
func RecordCacheCoalesced() {
	globalManager.cacheCoalesced.Inc()
}

// RecordCacheEviction records a capacity eviction.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCacheSize updates the route cache size gauge.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// RecordProviderCall records one provider call attempt.
func RecordProviderCall() {
	globalManager.providerCalls.Inc()
}

// RecordProviderError records a provider failure by kind.
func RecordProviderError(kind string) {
	globalManager.providerErrors.WithLabelValues(kind).Inc()
}

// RecordFallbackEstimate records a result from the fallback estimator.
func RecordFallbackEstimate() {
	globalManager.fallbackEstimates.Inc()
}

// UpdateCircuitState updates the circuit state gauge.
func UpdateCircuitState(state int) {
	globalManager.circuitState.Set(float64(state))
}

// RecordBatch records one transport batch.
func RecordBatch(jobs int, elapsed time.Duration) {
	globalManager.batchesTotal.Inc()
	globalManager.batchSize.Observe(float64(jobs))
	globalManager.batchLatency.Observe(float64(elapsed.Milliseconds()))
}

// RecordBatchJobDegraded records a batch job that fell back to the
// conservative default.
func RecordBatchJobDegraded() {
	globalManager.batchJobsDegraded.Inc()
}

// RecordHTTPRequest records an HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
