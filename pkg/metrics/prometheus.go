// Package metrics provides Prometheus metrics for the orgpulse analytics service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the orgpulse service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Load Metrics - Fetching and normalizing the organization
	loadsTotal             *prometheus.CounterVec
	loadDuration           prometheus.Histogram
	loadLastUnix           prometheus.Gauge
	collectionFetchErrors  *prometheus.CounterVec
	assignmentFetchErrors  prometheus.Counter
	normalizationWarnings  *prometheus.CounterVec
	duplicateAssignments   prometheus.Counter
	assignmentFetchLatency prometheus.Histogram

	// Snapshot Metrics - What is currently being served
	snapshotGeneration prometheus.Gauge
	snapshotEntities   *prometheus.GaugeVec

	// Aggregation Metrics - Dashboard computation
	aggregationLatency prometheus.Histogram
	dashboardCacheHits prometheus.Counter
	dashboardCacheMiss prometheus.Counter
	drilldownsTotal    *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "orgpulse",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	// Load Metrics
	m.loadsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("loads_total"),
		Help:        "Total number of organization loads by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("load_duration_milliseconds"),
		Help:        "Duration of a full organization load in milliseconds",
		Buckets:     []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		ConstLabels: labels,
	})

	m.loadLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("load_last_unix"),
		Help:        "Unix timestamp of the last completed load",
		ConstLabels: labels,
	})

	m.collectionFetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("collection_fetch_errors_total"),
		Help:        "Failed collection fetches, which degrade to an empty collection",
		ConstLabels: labels,
	}, []string{"collection"})

	m.assignmentFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("assignment_fetch_errors_total"),
		Help:        "Failed per-employee assignment fetches",
		ConstLabels: labels,
	})

	m.assignmentFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("assignment_fetch_latency_milliseconds"),
		Help:        "Latency of one per-employee assignment fetch in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.normalizationWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("normalization_warnings_total"),
		Help:        "Fields that were defaulted while normalizing raw records",
		ConstLabels: labels,
	}, []string{"entity"})

	m.duplicateAssignments = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("duplicate_assignments_total"),
		Help:        "Assignment records repeating an employee and competency pair",
		ConstLabels: labels,
	})

	// Snapshot Metrics
	m.snapshotGeneration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_generation"),
		Help:        "Generation of the snapshot currently served",
		ConstLabels: labels,
	})

	m.snapshotEntities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_entities"),
		Help:        "Number of records per collection in the served snapshot",
		ConstLabels: labels,
	}, []string{"collection"})

	// Aggregation Metrics
	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("aggregation_latency_milliseconds"),
		Help:        "Time to compute one dashboard in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.dashboardCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dashboard_cache_hits_total"),
		Help:        "Dashboards served from the view cache",
		ConstLabels: labels,
	})

	m.dashboardCacheMiss = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dashboard_cache_misses_total"),
		Help:        "Dashboards that had to be computed",
		ConstLabels: labels,
	})

	m.drilldownsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("drilldowns_total"),
		Help:        "Drilldown requests by event kind and outcome",
		ConstLabels: labels,
	}, []string{"kind", "outcome"})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RefreshInterval returns how often gauges sampled by a collector loop should
// be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// Enabled reports whether metrics collection is enabled.
func Enabled() bool {
	return globalManager.enabled
}

// Load Metrics Functions.

// RecordLoad records a completed load. Outcome is "ok", "degraded" or "failed".
func RecordLoad(outcome string, durationMs float64) {
	globalManager.loadsTotal.WithLabelValues(outcome).Inc()
	globalManager.loadDuration.Observe(durationMs)
	globalManager.loadLastUnix.SetToCurrentTime()
}

// RecordCollectionFetchError increments the failed fetch counter for a collection.
func RecordCollectionFetchError(collection string) {
	globalManager.collectionFetchErrors.WithLabelValues(collection).Inc()
}

// RecordAssignmentFetchError increments the failed assignment fetch counter.
func RecordAssignmentFetchError() {
	globalManager.assignmentFetchErrors.Inc()
}

// RecordAssignmentFetchLatency records a per-employee fetch latency.
func RecordAssignmentFetchLatency(latencyMs float64) {
	globalManager.assignmentFetchLatency.Observe(latencyMs)
}

// RecordNormalizationWarnings adds n defaulted fields for entity.
func RecordNormalizationWarnings(entity string, n int) {
	if n > 0 {
		globalManager.normalizationWarnings.WithLabelValues(entity).Add(float64(n))
	}
}

// RecordDuplicateAssignment increments the duplicate assignment counter.
func RecordDuplicateAssignment() {
	globalManager.duplicateAssignments.Inc()
}

// Snapshot Metrics Functions.

// UpdateSnapshotGeneration sets the served generation.
func UpdateSnapshotGeneration(generation uint64) {
	globalManager.snapshotGeneration.Set(float64(generation))
}

// UpdateSnapshotEntities sets the size of one collection.
func UpdateSnapshotEntities(collection string, count int) {
	globalManager.snapshotEntities.WithLabelValues(collection).Set(float64(count))
}

// Aggregation Metrics Functions.

// RecordAggregationLatency records a dashboard computation latency.
func RecordAggregationLatency(latencyMs float64) {
	globalManager.aggregationLatency.Observe(latencyMs)
}

// RecordDashboardCacheHit increments the view cache hit counter.
func RecordDashboardCacheHit() {
	globalManager.dashboardCacheHits.Inc()
}

// RecordDashboardCacheMiss increments the view cache miss counter.
func RecordDashboardCacheMiss() {
	globalManager.dashboardCacheMiss.Inc()
}

// RecordDrilldown records a drilldown request.
func RecordDrilldown(kind, outcome string) {
	globalManager.drilldownsTotal.WithLabelValues(kind, outcome).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
