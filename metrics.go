package kurir

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cancellation stages reported to metrics.
const (
	cancelStagePreflight = "preflight"
	cancelStageInflight  = "inflight"
)

// MetricsCollector provides Prometheus metrics for the dispatch lifecycle.
// It is safe for concurrent use; a nil collector records nothing.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	errorsTotal        *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec

	interceptors *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registerer prometheus.Registerer) *MetricsCollector {
	registry, _ := registerer.(*prometheus.Registry)
	factory := promauto.With(registerer)

	return &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_requests_total",
				Help: "Total number of dispatched requests that reached the transport",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kurir_request_duration_seconds",
				Help:    "Duration of transport calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kurir_requests_in_flight",
				Help: "Number of transport calls currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_errors_total",
				Help: "Total number of failed dispatches by failure kind",
			},
			[]string{"type", "method"},
		),
		cancellationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_cancellations_total",
				Help: "Total number of cancelled requests by stage (preflight, inflight)",
			},
			[]string{"stage"},
		),
		interceptors: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kurir_interceptors",
				Help: "Number of live interceptors by side (request, response)",
			},
			[]string{"side"},
		),
		registry: registry,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordError increments error counter by failure kind.
func (mc *MetricsCollector) RecordError(errorType, method string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType, method).Inc()
}

// RecordCancellation increments the cancellation counter for stage.
func (mc *MetricsCollector) RecordCancellation(stage string) {
	if mc == nil {
		return
	}

	mc.cancellationsTotal.WithLabelValues(stage).Inc()
}

// RecordInterceptors sets the live interceptor gauge for side.
func (mc *MetricsCollector) RecordInterceptors(side string, live int) {
	if mc == nil {
		return
	}

	mc.interceptors.WithLabelValues(side).Set(float64(live))
}

// GetRegistry exposes the underlying prometheus registry, when there is one.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	return mc.registry
}
