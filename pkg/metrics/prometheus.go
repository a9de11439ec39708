// Package metrics provides Prometheus metrics for the scorecalc service.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeUnknown = "unknown_calculator"
	OutcomeFailure = "failure"
)

// Latency buckets in milliseconds. Calculations are CPU-only and fast.
var defaultBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

const subsystem = "api"

// Manager manages all Prometheus metrics for the scorecalc service.
type Manager struct {
	namespace   string
	constLabels prometheus.Labels
	registry    prometheus.Registerer

	// Calculation metrics
	calculations          *prometheus.CounterVec
	calculationLatency    *prometheus.HistogramVec
	registeredCalculators prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	gcMu      sync.Mutex
	lastNumGC uint32
}

// The global manager and the registry it exports through. Both are swapped
// together by Configure.
var (
	globalMu       sync.RWMutex         //nolint:gochecknoglobals // guards the pair below
	globalManager  *Manager             //nolint:gochecknoglobals // singleton used by package-level helpers
	customRegistry *prometheus.Registry //nolint:gochecknoglobals // avoids default Go collectors
)

func init() { //nolint:gochecknoinits // package-level helpers work before Configure
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it at startup before the /metrics handler is created.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)

	globalMu.Lock()
	globalManager, customRegistry = m, reg
	globalMu.Unlock()
}

func global() *Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "scorecalc",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     defaultBuckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.calculations = m.counterVec("calculations_total",
		"Total number of calculations by calculator and outcome", "calculator", "outcome")
	m.calculationLatency = m.histogramVec("calculation_latency_milliseconds",
		"Calculation latency in milliseconds, validation included", "calculator")
	m.registeredCalculators = m.gauge("registered_calculators",
		"Number of calculators in the sealed registry")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.rateLimited = m.counterVec("rate_limited_total",
		"Requests rejected by the rate limiter", "path")

	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds",
		"Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordCalculation counts one calculation and observes its latency.
func (m *Manager) RecordCalculation(calculator, outcome string, latency time.Duration) {
	m.calculations.WithLabelValues(calculator, outcome).Inc()
	if outcome != OutcomeUnknown {
		m.calculationLatency.WithLabelValues(calculator).Observe(ms(latency))
	}
}

// SetRegisteredCalculators sets the registry size gauge.
func (m *Manager) SetRegisteredCalculators(n int) {
	m.registeredCalculators.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, duration time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms(duration))
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *Manager) RecordRateLimited(path string) {
	m.rateLimited.WithLabelValues(path).Inc()
}

// RecordError records an error with its type, severity and endpoint.
func (m *Manager) RecordError(endpoint, method, errorType, severity string, latency time.Duration) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(ms(latency))
}

// CollectSystem samples runtime memory, goroutine and GC statistics.
func (m *Manager) CollectSystem() runtime.MemStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.systemMemoryUsage.Set(float64(mem.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	m.gcMu.Lock()
	defer m.gcMu.Unlock()
	// PauseNs is a ring buffer of the most recent 256 pauses.
	from := m.lastNumGC
	if mem.NumGC-from > uint32(len(mem.PauseNs)) {
		from = mem.NumGC - uint32(len(mem.PauseNs))
	}
	for i := from; i < mem.NumGC; i++ {
		pause := mem.PauseNs[i%uint32(len(mem.PauseNs))]
		m.systemGCPauseTime.Observe(float64(pause) / float64(time.Millisecond))
	}
	m.lastNumGC = mem.NumGC
	return mem
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordCalculation records a calculation on the global manager.
func RecordCalculation(calculator, outcome string, latency time.Duration) {
	global().RecordCalculation(calculator, outcome, latency)
}

// SetRegisteredCalculators sets the registry size on the global manager.
func SetRegisteredCalculators(n int) {
	global().SetRegisteredCalculators(n)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, duration time.Duration) {
	global().RecordHTTPRequest(endpoint, method, statusCode, duration)
}

// RecordRateLimited records a rate-limited request on the global manager.
func RecordRateLimited(path string) {
	global().RecordRateLimited(path)
}

// RecordError records an HTTP error on the global manager.
func RecordError(endpoint, method, errorType, severity string, latency time.Duration) {
	global().RecordError(endpoint, method, errorType, severity, latency)
}

// CollectSystem samples runtime statistics into the global manager.
func CollectSystem() runtime.MemStats {
	return global().CollectSystem()
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return customRegistry
}
