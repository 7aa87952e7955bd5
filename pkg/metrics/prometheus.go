// Package metrics provides Prometheus metrics for the alignd service.
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

// Manager manages all Prometheus metrics for the alignd service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core business metrics - how scoring actually resolves
	analysesAI       prometheus.Counter
	analysesFallback prometheus.Counter
	scoreClamps      prometheus.Counter
	goalsPublished   prometheus.Counter
	reportsGenerated prometheus.Counter
	reportErrors     prometheus.Counter

	// Gateway metrics - external model health
	gatewayCalls     prometheus.Counter
	gatewayErrors    prometheus.Counter
	gatewayLatency   prometheus.Histogram
	sanitizerRejects prometheus.Counter

	// Store metrics
	storeWriteLatency prometheus.Histogram
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter

	// Operational gauges
	totalGoals    prometheus.Gauge
	totalAnalyses prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "alignd",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric registration is inherently long
	auto := promauto.With(m.registry)

	m.analysesAI = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_ai_total",
		Help:      "Total number of alignment analyses scored by the model",
	})

	m.analysesFallback = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_fallback_total",
		Help:      "Total number of alignment analyses scored by the heuristic fallback",
	})

	m.scoreClamps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_clamps_total",
		Help:      "Total number of model scores clamped into the 0-100 range",
	})

	m.goalsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "goals_published_total",
		Help:      "Total number of goals published by leaders",
	})

	m.reportsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_generated_total",
		Help:      "Total number of status reports generated",
	})

	m.reportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Total number of report generation failures (no fallback exists)",
	})

	m.gatewayCalls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gateway_calls_total",
		Help:      "Total number of text-completion gateway invocations",
	})

	m.gatewayErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gateway_errors_total",
		Help:      "Total number of gateway failures (timeout, transport, non-2xx)",
	})

	m.gatewayLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gateway_latency_milliseconds",
		Help:      "Histogram of text-completion gateway latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sanitizerRejects = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sanitizer_rejects_total",
		Help:      "Total number of model responses the sanitizer could not recover",
	})

	m.storeWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_write_latency_milliseconds",
		Help:      "Store write operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Store query operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of store failures",
	})

	m.totalGoals = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_goals",
		Help:      "Total number of goals currently stored",
	})

	m.totalAnalyses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_analyses",
		Help:      "Total number of analyses currently stored",
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

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordAnalysisAI increments the AI-scored analyses counter.
func RecordAnalysisAI() {
	globalManager.analysesAI.Inc()
}

// RecordAnalysisFallback increments the heuristic-scored analyses counter.
func RecordAnalysisFallback() {
	globalManager.analysesFallback.Inc()
}

// RecordScoreClamp increments the out-of-range score counter.
func RecordScoreClamp() {
	globalManager.scoreClamps.Inc()
}

// RecordGoalPublished increments the published goals counter.
func RecordGoalPublished() {
	globalManager.goalsPublished.Inc()
}

// RecordReportGenerated increments the generated reports counter.
func RecordReportGenerated() {
	globalManager.reportsGenerated.Inc()
}

// RecordReportError increments the report failures counter.
func RecordReportError() {
	globalManager.reportErrors.Inc()
}

// RecordGatewayCall increments the gateway invocation counter.
func RecordGatewayCall() {
	globalManager.gatewayCalls.Inc()
}

// RecordGatewayError increments the gateway failures counter.
func RecordGatewayError() {
	globalManager.gatewayErrors.Inc()
}

// RecordGatewayLatency records gateway latency in milliseconds.
func RecordGatewayLatency(latencyMs float64) {
	globalManager.gatewayLatency.Observe(latencyMs)
}

// RecordSanitizerReject increments the unrecoverable-response counter.
func RecordSanitizerReject() {
	globalManager.sanitizerRejects.Inc()
}

// RecordStoreWriteLatency records store write latency in milliseconds.
func RecordStoreWriteLatency(latencyMs float64) {
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records store query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError increments the store failures counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateTotalGoals sets the stored goals gauge.
func UpdateTotalGoals(count int) {
	globalManager.totalGoals.Set(float64(count))
}

// UpdateTotalAnalyses sets the stored analyses gauge.
func UpdateTotalAnalyses(count int) {
	globalManager.totalAnalyses.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

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
