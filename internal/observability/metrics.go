package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyjia/expense-approvals/internal/domain/event"
)

const namespace = "expense"

// Metrics collects Prometheus metrics for the HTTP surface and the workflow events
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	paidAmount      *prometheus.CounterVec
}

// NewMetrics creates the registry and registers every collector
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_events_total",
		Help:      "Domain events published by type.",
	}, []string{"type"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_transitions_total",
		Help:      "Workflow status transitions.",
	}, []string{"from", "to"})
	paid := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_amount_total",
		Help:      "Settled reimbursement amount by payment method.",
	}, []string{"method"})

	registry.MustRegister(
		requests, duration, events, transitions, paid,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		eventsTotal:     events,
		transitions:     transitions,
		paidAmount:      paid,
	}
}

// Handler serves the /metrics exposition
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per matched gin route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// HandleEvent counts a published domain event. It matches the dispatcher handler signature.
func (m *Metrics) HandleEvent(_ context.Context, evt *event.Event) error {
	if m == nil || evt == nil {
		return nil
	}
	m.eventsTotal.WithLabelValues(evt.Type.String()).Inc()

	switch evt.Type {
	case event.TypeStatusChanged:
		m.transitions.WithLabelValues(evt.GetPayloadString(event.KeyFromStatus), evt.GetPayloadString(event.KeyToStatus)).Inc()
	case event.TypeReportPaid:
		m.paidAmount.WithLabelValues(evt.GetPayloadString(event.KeyPaymentMethod)).Add(evt.GetPayloadFloat(event.KeyAmount))
	}
	return nil
}
