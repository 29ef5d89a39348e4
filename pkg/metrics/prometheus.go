// Package metrics provides Prometheus metrics for the ROAS reporting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcome label values.
const (
	OutcomeOK                = "ok"
	OutcomeMissingColumn     = "missing_column"
	OutcomeMalformedDate     = "malformed_date"
	OutcomeMalformedValue    = "malformed_value"
	OutcomeSourceUnavailable = "source_unavailable"
	OutcomeDuplicatePayout   = "duplicate_payout"
	OutcomeError             = "error"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	combinedRows     prometheus.Gauge
	filteredRows     prometheus.Gauge

	// Sources
	sourceRows         *prometheus.GaugeVec
	sourceLoadDuration prometheus.Histogram
	sourceLoads        *prometheus.CounterVec

	// Report cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton manager behind the package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roas",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(
		m.counterOpts("pipeline_runs_total", "Pipeline runs by outcome"),
		[]string{"outcome"},
	)
	m.pipelineDuration = auto.NewHistogram(
		m.histogramOpts("pipeline_run_duration_milliseconds", "Pipeline run duration in milliseconds", m.histogramBuckets),
	)
	m.combinedRows = auto.NewGauge(m.gaugeOpts("combined_rows", "Rows in the combined table of the last run"))
	m.filteredRows = auto.NewGauge(m.gaugeOpts("filtered_rows", "Rows in the working subset of the last run"))

	m.sourceRows = auto.NewGaugeVec(
		m.gaugeOpts("source_rows", "Rows loaded per source table"),
		[]string{"table"},
	)
	m.sourceLoadDuration = auto.NewHistogram(
		m.histogramOpts("source_load_duration_milliseconds", "Time to load all source tables in milliseconds", m.histogramBuckets),
	)
	m.sourceLoads = auto.NewCounterVec(
		m.counterOpts("source_loads_total", "Source load attempts by outcome"),
		[]string{"outcome"},
	)

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Report cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Report cache misses"))
	m.cacheEvictions = auto.NewCounter(m.counterOpts("cache_evictions_total", "Report cache evictions"))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("cache_entries", "Reports currently cached"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordPipelineRun counts one pipeline run and its duration.
func (m *Manager) RecordPipelineRun(outcome string, durationMs float64) {
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(durationMs)
}

// UpdateRowCounts sets the combined and filtered row gauges.
func (m *Manager) UpdateRowCounts(combined, filtered int) {
	m.combinedRows.Set(float64(combined))
	m.filteredRows.Set(float64(filtered))
}

// UpdateSourceRows sets the row count of one source table.
func (m *Manager) UpdateSourceRows(table string, rows int) {
	m.sourceRows.WithLabelValues(table).Set(float64(rows))
}

// RecordSourceLoad counts a load attempt and its duration.
func (m *Manager) RecordSourceLoad(outcome string, durationMs float64) {
	m.sourceLoads.WithLabelValues(outcome).Inc()
	m.sourceLoadDuration.Observe(durationMs)
}

// RecordCacheHit increments the cache hit counter.
func (m *Manager) RecordCacheHit() { m.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func (m *Manager) RecordCacheMiss() { m.cacheMisses.Inc() }

// RecordCacheEviction increments the cache eviction counter.
func (m *Manager) RecordCacheEviction() { m.cacheEvictions.Inc() }

// UpdateCacheEntries sets the cached report count.
func (m *Manager) UpdateCacheEntries(n int) { m.cacheEntries.Set(float64(n)) }

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level helpers operating on the global manager.

// RecordPipelineRun counts one pipeline run on the global manager.
func RecordPipelineRun(outcome string, durationMs float64) {
	globalManager.RecordPipelineRun(outcome, durationMs)
}

// UpdateRowCounts sets the row gauges on the global manager.
func UpdateRowCounts(combined, filtered int) { globalManager.UpdateRowCounts(combined, filtered) }

// UpdateSourceRows sets a source row gauge on the global manager.
func UpdateSourceRows(table string, rows int) { globalManager.UpdateSourceRows(table, rows) }

// RecordSourceLoad counts a source load on the global manager.
func RecordSourceLoad(outcome string, durationMs float64) {
	globalManager.RecordSourceLoad(outcome, durationMs)
}

// RecordCacheHit increments the global cache hit counter.
func RecordCacheHit() { globalManager.RecordCacheHit() }

// RecordCacheMiss increments the global cache miss counter.
func RecordCacheMiss() { globalManager.RecordCacheMiss() }

// RecordCacheEviction increments the global cache eviction counter.
func RecordCacheEviction() { globalManager.RecordCacheEviction() }

// UpdateCacheEntries sets the global cached report gauge.
func UpdateCacheEntries(n int) { globalManager.UpdateCacheEntries(n) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
