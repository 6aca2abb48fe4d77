package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crm",
			Name:      "http_active_connections",
			Help:      "Number of active HTTP connections",
		},
	)

	leadSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "lead_syncs_total",
			Help:      "Lemlist lead syncs by result",
		},
		[]string{"result"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "webhook_events_total",
			Help:      "Outreach webhook deliveries by event type",
		},
		[]string{"type"},
	)

	outreachMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "outreach_messages_total",
			Help:      "Outbound messages by channel",
		},
		[]string{"channel"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "relay_rate_limited_total",
			Help:      "Relay requests rejected by the per-IP limiter",
		},
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
		path := routePattern(r)

		method := methodLabel(r.Method)

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
	})
}

// UnmatchedRoute agrupa requests sem rota; a URL crua abriria uma série por path.
const UnmatchedRoute = "unmatched"

// routePattern evita uma série por lead id: usa o padrão da rota do chi.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return UnmatchedRoute
}

func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodHead:
		return m
	}
	return "OTHER"
}

func RecordLeadSync(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	leadSyncs.WithLabelValues(result).Inc()
}

// RecordWebhookEvent conta a entrega; o tipo vem do corpo sem autenticação, então
// só os tipos em known viram label e o resto cai em "other".
func RecordWebhookEvent(eventType string, known ...string) {
	label := "other"
	for _, k := range known {
		if eventType == k {
			label = eventType
			break
		}
	}
	webhookEvents.WithLabelValues(label).Inc()
}

func RecordOutreachMessage(channel string) {
	outreachMessages.WithLabelValues(channel).Inc()
}
