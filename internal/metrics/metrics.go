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
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	comparisonsTotal prometheus.Counter
	sweepsTotal      *prometheus.CounterVec
	sweepDuration    prometheus.Histogram
	narrationsTotal  *prometheus.CounterVec
	jobsActive       *prometheus.GaugeVec
	archivedRuns     prometheus.Gauge
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
	r.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_analyses_total",
			Help: "Total number of performance analyses computed",
		},
		[]string{"status"},
	)
	r.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prism_analysis_duration_seconds",
			Help:    "Analysis duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.comparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prism_comparisons_total",
			Help: "Total number of strategy comparisons built",
		},
	)
	r.sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_sweeps_total",
			Help: "Total number of parameter sweeps",
		},
		[]string{"status"},
	)
	r.sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prism_sweep_duration_seconds",
			Help:    "Parameter sweep duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)
	r.narrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_narrations_total",
			Help: "Total number of narrative generations",
		},
		[]string{"provider", "status"},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prism_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)
	r.archivedRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "prism_archived_runs",
			Help: "Number of analysis runs in the archive",
		},
	)

	reg.MustRegister(r.analysesTotal)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.comparisonsTotal)
	reg.MustRegister(r.sweepsTotal)
	reg.MustRegister(r.sweepDuration)
	reg.MustRegister(r.narrationsTotal)
	reg.MustRegister(r.jobsActive)
	reg.MustRegister(r.archivedRuns)

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

// RecordAnalysis records a completed analysis.
func (r *Registry) RecordAnalysis(status string, duration float64) {
	r.analysesTotal.WithLabelValues(status).Inc()
	r.analysisDuration.Observe(duration)
}

// RecordComparison records a strategy comparison.
func (r *Registry) RecordComparison() {
	r.comparisonsTotal.Inc()
}

// RecordSweep records a parameter sweep completion.
func (r *Registry) RecordSweep(status string, duration float64) {
	r.sweepsTotal.WithLabelValues(status).Inc()
	r.sweepDuration.Observe(duration)
}

// RecordNarration records a narrative generation attempt.
func (r *Registry) RecordNarration(provider, status string) {
	r.narrationsTotal.WithLabelValues(provider, status).Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

// SetArchivedRuns sets the archived run count gauge.
func (r *Registry) SetArchivedRuns(count int) {
	r.archivedRuns.Set(float64(count))
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
