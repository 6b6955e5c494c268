// Package metrics provides Prometheus metrics for the PitchMix engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the PitchMix service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	rowsRead        prometheus.Counter
	rowsIngested    prometheus.Counter
	rowsSkipped     *prometheus.CounterVec
	filesProcessed  prometheus.Counter
	filesSkipped    prometheus.Counter
	pitchersCreated prometheus.Counter
	pitchesInserted prometheus.Counter
	ingestDuration  prometheus.Histogram

	// Serving metrics
	recommendations   *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	storeQueryLatency *prometheus.HistogramVec

	// Pipeline metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter
	queueDequeues    prometheus.Counter
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram
	workerErrors     prometheus.Counter

	// Business scale gauges
	totalPitchers prometheus.Gauge
	totalPitches  prometheus.Gauge

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "pitchmix",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric declarations are sequential by nature
	auto := promauto.With(m.registry)

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_rows_read_total",
		Help: "Total number of source rows read from CSV files",
	})
	m.rowsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_rows_ingested_total",
		Help: "Total number of rows normalized into pitch events",
	})
	m.rowsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_rows_skipped_total",
		Help: "Total number of rows skipped during normalization, by reason",
	}, []string{"reason"})
	m.filesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_files_processed_total",
		Help: "Total number of source files fully ingested",
	})
	m.filesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_files_skipped_total",
		Help: "Total number of source files skipped (unreadable or missing required columns)",
	})
	m.pitchersCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pitchers_created_total",
		Help: "Total number of pitcher records created in the registry",
	})
	m.pitchesInserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pitches_inserted_total",
		Help: "Total number of pitch events written to the store",
	})
	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ingest_file_duration_milliseconds",
		Help:    "Per-file ingestion duration in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recommendations_total",
		Help: "Total number of recommendations served, by cascade stage",
	}, []string{"stage"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_query_latency_milliseconds",
		Help:    "Event store operation latency in milliseconds, by operation",
		Buckets: m.histogramBuckets,
	}, []string{"operation"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_size",
		Help: "Current size of the ingestion row queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_capacity",
		Help: "Maximum ingestion row queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_utilization_ratio",
		Help: "Ingestion queue utilization ratio (current size / capacity)",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_enqueue_total",
		Help: "Total number of rows enqueued into the ingestion pipeline",
	})
	m.queueEnqueueErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_enqueue_errors_total",
		Help: "Total number of failed enqueue attempts",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_queue_dequeue_total",
		Help: "Total number of rows dequeued by normalize workers",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_worker_count",
		Help: "Current number of normalize workers",
	})
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "pipeline_worker_latency_milliseconds",
		Help:    "Per-row normalization latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_worker_errors_total",
		Help: "Total number of worker processing errors",
	})

	m.totalPitchers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_pitchers",
		Help: "Total number of pitchers in the registry",
	})
	m.totalPitches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_pitches",
		Help: "Total number of pitch events in the store",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current allocated heap memory in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordRowRead counts one source row read from a CSV file.
func RecordRowRead() { globalManager.rowsRead.Inc() }

// RecordRowIngested counts one row normalized into a pitch event.
func RecordRowIngested() { globalManager.rowsIngested.Inc() }

// RecordRowSkipped counts one skipped row by reason.
func RecordRowSkipped(reason string) { globalManager.rowsSkipped.WithLabelValues(reason).Inc() }

// RecordFileProcessed counts one fully ingested source file.
func RecordFileProcessed() { globalManager.filesProcessed.Inc() }

// RecordFileSkipped counts one skipped source file.
func RecordFileSkipped() { globalManager.filesSkipped.Inc() }

// RecordPitcherCreated counts one newly created pitcher record.
func RecordPitcherCreated() { globalManager.pitchersCreated.Inc() }

// RecordPitchesInserted counts n pitch events written to the store.
func RecordPitchesInserted(n int) { globalManager.pitchesInserted.Add(float64(n)) }

// RecordIngestFileDuration observes one per-file ingestion duration.
func RecordIngestFileDuration(ms float64) { globalManager.ingestDuration.Observe(ms) }

// RecordRecommendation counts one served recommendation by cascade stage.
func RecordRecommendation(stage string) {
	globalManager.recommendations.WithLabelValues(stage).Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordStoreQueryLatency observes one store operation duration.
func RecordStoreQueryLatency(operation string, ms float64) {
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(ms)
}

// UpdateQueueSize sets the current ingestion queue size.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the ingestion queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateQueueUtilization sets the ingestion queue utilization ratio.
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }

// RecordQueueEnqueue counts one enqueued row.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueEnqueueError counts one failed enqueue attempt.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrs.Inc() }

// RecordQueueDequeue counts one dequeued row.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// UpdateWorkerCount sets the current normalize worker count.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerLatency observes one per-row normalization duration.
func RecordWorkerLatency(ms float64) { globalManager.workerLatency.Observe(ms) }

// RecordWorkerError counts one worker processing error.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateTotalPitchers sets the registry size gauge.
func UpdateTotalPitchers(n int) { globalManager.totalPitchers.Set(float64(n)) }

// UpdateTotalPitches sets the store size gauge.
func UpdateTotalPitches(n int) { globalManager.totalPitches.Set(float64(n)) }

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }
