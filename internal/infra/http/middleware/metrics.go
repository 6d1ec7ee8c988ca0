package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured or updated",
		},
		[]string{"status"},
	)

	leadAlertsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_alerts_queued_total",
			Help: "Total number of sales alerts queued by the dispatcher",
		},
		[]string{"kind"},
	)

	followUpsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_sent_total",
			Help: "Total number of follow-up emails sent",
		},
	)

	followUpsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followups_failed_total",
			Help: "Total number of per-lead follow-up failures",
		},
		[]string{"stage"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadCaptured(status string) {
	leadsCaptured.WithLabelValues(status).Inc()
}

func RecordAlertQueued(kind string) {
	leadAlertsQueued.WithLabelValues(kind).Inc()
}

func RecordFollowUpSent() {
	followUpsSent.Inc()
}

func RecordFollowUpFailure(stage string) {
	followUpsFailed.WithLabelValues(stage).Inc()
}
