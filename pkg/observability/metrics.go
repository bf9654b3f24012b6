package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry and the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	usersTotal     prometheus.Gauge
	customersTotal prometheus.Gauge
	tasksTotal     prometheus.Gauge
	tasksByStatus  *prometheus.GaugeVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minicrm",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "minicrm",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minicrm",
			Name:      "users_total",
			Help:      "Current number of user accounts.",
		}),
		customersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minicrm",
			Name:      "customers_total",
			Help:      "Current number of customers.",
		}),
		tasksTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minicrm",
			Name:      "tasks_total",
			Help:      "Current number of tasks.",
		}),
		tasksByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "minicrm",
			Name:      "tasks_by_status",
			Help:      "Current number of tasks per status.",
		}, []string{"status"}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.usersTotal, m.customersTotal, m.tasksTotal, m.tasksByStatus)
	return m
}

// Middleware records request counts and latency. The route template, not
// the raw path, is used as the label so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metricsRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (r *metricsRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetBusinessStats updates the entity-count gauges.
func (m *Metrics) SetBusinessStats(userCount, customerCount, taskCount int64, tasksByStatus map[string]int64) {
	m.usersTotal.Set(float64(userCount))
	m.customersTotal.Set(float64(customerCount))
	m.tasksTotal.Set(float64(taskCount))
	for status, count := range tasksByStatus {
		m.tasksByStatus.WithLabelValues(status).Set(float64(count))
	}
}
