package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	runsTotal     *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	outcomesTotal *prometheus.CounterVec
	exportsTotal  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realize_runs_total",
			Help: "Total number of realization runs",
		},
		[]string{"status"},
	)
	r.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realize_fetch_duration_seconds",
			Help:    "Market data fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)
	r.outcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realize_outcomes_total",
			Help: "Total number of evaluated bars by outcome",
		},
		[]string{"outcome"},
	)
	r.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realize_exports_total",
			Help: "Total number of CSV exports",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.outcomesTotal)
	reg.MustRegister(r.exportsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRun records a completed realization run.
func (r *Registry) RecordRun(status string) {
	r.runsTotal.WithLabelValues(status).Inc()
}

// RecordFetch records the duration of a market data call ("history" or "info").
func (r *Registry) RecordFetch(kind string, duration float64) {
	r.fetchDuration.WithLabelValues(kind).Observe(duration)
}

// RecordOutcomes adds evaluated bar counts per outcome.
func (r *Registry) RecordOutcomes(counts map[string]int) {
	for outcome, n := range counts {
		r.outcomesTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordExport records a CSV export attempt.
func (r *Registry) RecordExport(status string) {
	r.exportsTotal.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
