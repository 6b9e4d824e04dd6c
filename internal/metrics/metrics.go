// Package metrics exposes Prometheus collectors for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubesat_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cubesat_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	propagationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cubesat_propagation_duration_seconds",
			Help:    "Time spent propagating one ground track.",
			Buckets: prometheus.DefBuckets,
		},
	)

	propagationSamplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cubesat_propagation_samples_total",
			Help: "Total ground-track samples computed.",
		},
	)

	elementFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubesat_element_fetches_total",
			Help: "Element-set store lookups by outcome.",
		},
		[]string{"outcome"},
	)

	elementSetAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cubesat_element_set_age_seconds",
			Help: "Age of the element set currently used for planning.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		propagationDurationSeconds,
		propagationSamplesTotal,
		elementFetchesTotal,
		elementSetAgeSeconds,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePropagation records one completed ground-track propagation.
func ObservePropagation(d time.Duration, samples int) {
	propagationDurationSeconds.Observe(d.Seconds())
	propagationSamplesTotal.Add(float64(samples))
}

// CountElementFetch records an element-store lookup outcome
// ("success" or "error").
func CountElementFetch(outcome string) {
	elementFetchesTotal.WithLabelValues(outcome).Inc()
}

// SetElementSetAge updates the element-set age gauge.
func SetElementSetAge(age time.Duration) {
	elementSetAgeSeconds.Set(age.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
