// Package metrics provides Prometheus metrics for the draftboard service.
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

// latencyBuckets are shared by every latency histogram.
var latencyBuckets = prometheus.DefBuckets //nolint:gochecknoglobals // read-only bucket layout

// rowBuckets covers result sizes from a single player to a full season.
var rowBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// Manager manages all Prometheus metrics for the draftboard service.
type Manager struct {
	namespace       string
	subsystem       string
	enabled         bool
	refreshInterval time.Duration
	customLabels    map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Query Metrics - What the dashboard asks for
	queriesTotal  *prometheus.CounterVec
	queryErrors   *prometheus.CounterVec
	queryLatency  prometheus.Histogram
	rowsReturned  prometheus.Histogram
	filtersPerRun prometheus.Histogram

	// Table Metrics - The two session tables
	tableRows          *prometheus.GaugeVec
	tableLoadLatency   prometheus.Histogram
	normalizeLatency   prometheus.Histogram
	positionAnomalies  *prometheus.GaugeVec
	actualBackfills    prometheus.Counter
	tablesLoadedAtUnix prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

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

// Init replaces the global manager with one built from opts on a fresh
// registry, which GetRegistry returns from then on. Call it once at start-up,
// before anything records or serves metrics.
func Init(opts ...Option) *Manager {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "draftboard",
		subsystem:       "predictions",
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		customLabels:    make(map[string]string),
		metricPrefix:    "",
		registry:        prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.queriesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("queries_total"),
		Help:        "Total number of prediction queries by source table",
		ConstLabels: labels,
	}, []string{"source"})

	m.queryErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_errors_total"),
		Help:        "Total number of rejected prediction queries by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_latency_milliseconds"),
		Help:        "Histogram of filter and projection latency in milliseconds",
		Buckets:     latencyBuckets,
		ConstLabels: labels,
	})

	m.rowsReturned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_rows_returned"),
		Help:        "Rows returned per query",
		Buckets:     rowBuckets,
		ConstLabels: labels,
	})

	m.filtersPerRun = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_column_filters"),
		Help:        "Column filters supplied per query",
		Buckets:     []float64{0, 1, 2, 4, 8, 16},
		ConstLabels: labels,
	})

	m.tableRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("table_rows"),
		Help:        "Rows held per normalised table",
		ConstLabels: labels,
	}, []string{"source"})

	m.tableLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("table_load_latency_milliseconds"),
		Help:        "Time spent reading a raw prediction table",
		Buckets:     latencyBuckets,
		ConstLabels: labels,
	})

	m.normalizeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("normalize_latency_milliseconds"),
		Help:        "Time spent deriving Position, Name and salary for a table",
		Buckets:     latencyBuckets,
		ConstLabels: labels,
	})

	m.positionAnomalies = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("position_anomalies"),
		Help:        "Rows whose position indicators are all unset or set more than once",
		ConstLabels: labels,
	}, []string{"source", "kind"})

	m.actualBackfills = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("actual_backfills_total"),
		Help:        "Tables that received a zero-filled actual column",
		ConstLabels: labels,
	})

	m.tablesLoadedAtUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("tables_loaded_unix"),
		Help:        "Unix timestamp of the session table load",
		ConstLabels: labels,
	})

	// HTTP Performance Metrics - User experience indicators
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
			Help:        "HTTP request duration in milliseconds (user experience)",
			Buckets:     latencyBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total number of errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
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

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of failed operations in milliseconds",
			Buckets:     latencyBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
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

// RecordQuery counts a successful query against source and its result size.
func RecordQuery(source string, rows int, filters int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queriesTotal.WithLabelValues(source).Inc()
	globalManager.rowsReturned.Observe(float64(rows))
	globalManager.filtersPerRun.Observe(float64(filters))
}

// RecordQueryError counts a rejected query by error kind.
func RecordQueryError(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.queryErrors.WithLabelValues(kind).Inc()
}

// RecordQueryLatency records query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queryLatency.Observe(latencyMs)
}

// UpdateTableRows sets the row count of a session table.
func UpdateTableRows(source string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableRows.WithLabelValues(source).Set(float64(rows))
}

// RecordTableLoadLatency records how long reading a raw table took.
func RecordTableLoadLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableLoadLatency.Observe(latencyMs)
}

// RecordNormalizeLatency records how long normalising a table took.
func RecordNormalizeLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.normalizeLatency.Observe(latencyMs)
}

// UpdatePositionAnomalies sets the undefined and multiple position counts for source.
func UpdatePositionAnomalies(source string, undefined, multiple int) {
	if !globalManager.enabled {
		return
	}
	globalManager.positionAnomalies.WithLabelValues(source, "undefined").Set(float64(undefined))
	globalManager.positionAnomalies.WithLabelValues(source, "multiple").Set(float64(multiple))
}

// RecordActualBackfill counts a zero-filled actual column.
func RecordActualBackfill() {
	if !globalManager.enabled {
		return
	}
	globalManager.actualBackfills.Inc()
}

// MarkTablesLoaded stamps the session table load time.
func MarkTablesLoaded(t time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.tablesLoadedAtUnix.Set(float64(t.Unix()))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used for all service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Default returns the global metrics manager.
func Default() *Manager {
	return globalManager
}
