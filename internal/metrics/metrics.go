package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation types for business metrics
const (
	OperationTypeDeliveryStart    = "delivery_start"
	OperationTypeDeliveryComplete = "delivery_complete"
	OperationTypeNotDelivered     = "not_delivered"
	OperationTypeCaptureGPS       = "capture_gps"
	OperationTypeInventorySet     = "inventory_set"
	OperationTypeSessionStart     = "session_start"
	OperationTypeSessionEnd       = "session_end"
	OperationTypeReportPublish    = "report_publish"
)

// Database query types
const (
	DBQueryTypeSelect = "select"
	DBQueryTypeInsert = "insert"
	DBQueryTypeUpdate = "update"
	DBQueryTypeDelete = "delete"
)

// Message bus operations
const (
	MessageBusOperationSend = "send"
)

// Error types
const (
	ErrorTypeValidation = "validation"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeConflict   = "conflict"
	ErrorTypeAuth       = "auth"
	ErrorTypeDatabase   = "database"
	ErrorTypeInternal   = "internal"
)

// MetricsCollector exposes service metrics through a Prometheus registry
type MetricsCollector struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	dbQueries         *prometheus.CounterVec
	dbDuration        *prometheus.HistogramVec
	messageBusOps     *prometheus.CounterVec
	errors            *prometheus.CounterVec
	activeSessions    prometheus.Gauge
}

// NewMetricsCollector creates a collector with its own registry
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delivery_operations_total",
			Help: "Delivery domain operations by type and result",
		}, []string{"operation", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "delivery_operation_duration_seconds",
			Help:    "Duration of delivery domain operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Database queries by type and result",
		}, []string{"type", "result"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"type"}),
		messageBusOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "messagebus_operations_total",
			Help: "Message bus operations by type and result",
		}, []string{"operation", "result"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Errors by type",
		}, []string{"type"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "route_sessions_active",
			Help: "Route sessions started and not yet ended by this instance",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.operations,
		m.operationDuration,
		m.dbQueries,
		m.dbDuration,
		m.messageBusOps,
		m.errors,
		m.activeSessions,
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *MetricsCollector) RecordHTTPRequest(method, path string, statusCode int, latency time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(path).Observe(latency.Seconds())
}

// RecordOperation records a domain operation
func (m *MetricsCollector) RecordOperation(operationType string, success bool, latency time.Duration) {
	m.operations.WithLabelValues(operationType, result(success)).Inc()
	m.operationDuration.WithLabelValues(operationType).Observe(latency.Seconds())
}

// RecordDatabaseQuery records a database query
func (m *MetricsCollector) RecordDatabaseQuery(queryType string, success bool, latency time.Duration) {
	m.dbQueries.WithLabelValues(queryType, result(success)).Inc()
	m.dbDuration.WithLabelValues(queryType).Observe(latency.Seconds())
}

// RecordMessageBusOperation records a message bus operation
func (m *MetricsCollector) RecordMessageBusOperation(operation string, success bool) {
	m.messageBusOps.WithLabelValues(operation, result(success)).Inc()
}

// RecordError records an error by type
func (m *MetricsCollector) RecordError(errorType string) {
	m.errors.WithLabelValues(errorType).Inc()
}

// SessionStarted increments the active sessions gauge
func (m *MetricsCollector) SessionStarted() {
	m.activeSessions.Inc()
}

// SessionEnded decrements the active sessions gauge
func (m *MetricsCollector) SessionEnded() {
	m.activeSessions.Dec()
}

// Registry returns the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetMetricsCollector returns the process-wide metrics collector
func GetMetricsCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector()
	})
	return globalCollector
}
