// Package metrics expone las métricas Prometheus de la API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
)

const namespace = "tiendapp"

var (
	_ access.DecisionObserver = (*Metrics)(nil)
	_ jobs.Observer           = (*Metrics)(nil)
)

// Metrics agrupa los colectores de la API, registrados en su propio registry.
type Metrics struct {
	Registry *prometheus.Registry

	AccessDecisions   *prometheus.CounterVec
	JobRuns           *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New crea y registra las métricas. Incluye los colectores de runtime y proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		AccessDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Total number of access gate decisions by outcome.",
		}, []string{"outcome"}), // allowed, unauthenticated, not_provisioned, forbidden_role, subscription_expired, error
		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Total number of scheduled job runs by job and status.",
		}, []string{"job", "status"}),
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications sent by job.",
		}, []string{"job"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveDecision implementa access.DecisionObserver.
func (m *Metrics) ObserveDecision(outcome string) {
	m.AccessDecisions.WithLabelValues(outcome).Inc()
}

// ObserveJob implementa jobs.Observer.
func (m *Metrics) ObserveJob(job string, sent int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.JobRuns.WithLabelValues(job, status).Inc()
	if sent > 0 {
		m.NotificationsSent.WithLabelValues(job).Add(float64(sent))
	}
}

// ObserveHTTP registra una petición. route es el patrón (/api/products/:id), no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
