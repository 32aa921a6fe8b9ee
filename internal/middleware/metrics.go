package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects HTTP and pipeline counters for the /metrics endpoint.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rowsParsed      *prometheus.CounterVec
	rowsDropped     *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
}

// NewMetrics registers the application metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "praxis_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		rowsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_pipeline_rows_parsed_total",
			Help: "Rows kept by the cleaning pipeline, per module.",
		}, []string{"module"}),
		rowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_pipeline_rows_dropped_total",
			Help: "Rows dropped by the cleaning pipeline, per module.",
		}, []string{"module"}),
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_uploads_total",
			Help: "Workbook uploads, per module and outcome.",
		}, []string{"module", "outcome"}),
	}
}

// Handler records request counts and latencies per route pattern.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpload records the outcome of one upload run.
func (m *Metrics) ObserveUpload(module string, kept, dropped int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.uploadsTotal.WithLabelValues(module, outcome).Inc()
	if err == nil {
		m.rowsParsed.WithLabelValues(module).Add(float64(kept))
		m.rowsDropped.WithLabelValues(module).Add(float64(dropped))
	}
}
