// Package metrics exposes the portal's Prometheus counters on a private
// registry served at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vendor_portal"

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	statusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_status_transitions_total",
		Help:      "Vendor profile status writes, by actor and resulting status.",
	}, []string{"actor", "status"})

	intakeLeads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_leads_total",
		Help:      "Intake form submissions, by whether they were persisted.",
	}, []string{"persisted"})

	signIns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Sign-in and sign-up attempts, by action and outcome.",
	}, []string{"action", "outcome"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpLatency,
		statusTransitions,
		intakeLeads,
		signIns,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by matched route template so path ids do not
// explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTransition counts a status write. actor is "vendor" or "admin".
func RecordTransition(actor, status string) {
	statusTransitions.WithLabelValues(actor, status).Inc()
}

func RecordIntakeLead(persisted bool) {
	intakeLeads.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

// RecordAuth counts an auth attempt. action is "signin" or "signup",
// outcome "success" or "failure".
func RecordAuth(action, outcome string) {
	signIns.WithLabelValues(action, outcome).Inc()
}
