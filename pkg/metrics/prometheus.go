// Package metrics provides Prometheus metrics for the shootout service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Draws
	ordersTotal     *prometheus.CounterVec
	itemsDrawn      *prometheus.CounterVec
	drawFallbacks   *prometheus.CounterVec
	ordersDuplicate prometheus.Counter
	drawLatency     prometheus.Histogram

	// Penalties
	penaltiesTotal *prometheus.CounterVec
	penaltyChance  *prometheus.HistogramVec

	// Settlements
	settlementsTotal *prometheus.CounterVec
	tokensAwarded    *prometheus.CounterVec
	ledgerPlayers    prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shootout",
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

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.ordersTotal = m.counterVec("orders_total", "Orders fulfilled by division", "division")
	m.itemsDrawn = m.counterVec("items_drawn_total", "Items handed out by division", "division")
	m.drawFallbacks = m.counterVec("draw_fallbacks_total", "Orders whose exclusion set emptied the pool", "division")
	m.ordersDuplicate = m.counter("orders_duplicate_total", "Order ids seen more than once")
	m.drawLatency = m.histogram("draw_latency_milliseconds", "Draw latency in milliseconds", m.histogramBuckets)

	m.penaltiesTotal = m.counterVec("penalties_total", "Penalty attempts by division and outcome", "division", "outcome")
	m.penaltyChance = m.histogramVec("penalty_chance_percent", "Computed penalty chances",
		prometheus.LinearBuckets(5, 10, 10), "division")

	m.settlementsTotal = m.counterVec("settlements_total", "Matches settled by division and result", "division", "result")
	m.tokensAwarded = m.counterVec("tokens_awarded_total", "Tokens credited by division", "division")
	m.ledgerPlayers = m.gauge("ledger_players", "Players holding a ledger balance")

	m.queueSize = m.gauge("queue_size", "Current size of the settlement queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum settlement queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Settlements enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Settlements dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Rejected enqueues")

	m.workerCount = m.gauge("worker_count", "Configured settlement workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently settling a match")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Settlement latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Settlements that failed")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordOrder records a fulfilled order.
func RecordOrder(division string, items int, fallback bool, latencyMs float64) {
	globalManager.ordersTotal.WithLabelValues(division).Inc()
	globalManager.itemsDrawn.WithLabelValues(division).Add(float64(items))
	if fallback {
		globalManager.drawFallbacks.WithLabelValues(division).Inc()
	}
	globalManager.drawLatency.Observe(latencyMs)
}

// RecordOrderDuplicate increments the duplicate order counter.
func RecordOrderDuplicate() {
	globalManager.ordersDuplicate.Inc()
}

// RecordPenalty records one resolved attempt and its chance.
func RecordPenalty(division string, hit bool, chance int) {
	outcome := "miss"
	if hit {
		outcome = "goal"
	}
	globalManager.penaltiesTotal.WithLabelValues(division, outcome).Inc()
	globalManager.penaltyChance.WithLabelValues(division).Observe(float64(chance))
}

// RecordSettlement records a credited match payout.
func RecordSettlement(division string, won bool, tokens float64) {
	globalManager.settlementsTotal.WithLabelValues(division, strconv.FormatBool(won)).Inc()
	globalManager.tokensAwarded.WithLabelValues(division).Add(tokens)
}

// UpdateLedgerPlayers sets the number of players with a balance.
func UpdateLedgerPlayers(count int) {
	globalManager.ledgerPlayers.Set(float64(count))
}

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records settlement latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
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
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
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

// GetRegistry returns the registry holding the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
