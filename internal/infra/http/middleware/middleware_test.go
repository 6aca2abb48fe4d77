package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))
}

func TestRateLimiterHandlerRejectsWith429(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/outreach/inbox/linkedin", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost))
	// preflight nunca consome token
	assert.Equal(t, http.StatusOK, send(http.MethodOptions))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("1.1.1.1")
	rl.ttl = 0
	rl.Cleanup()
	assert.Empty(t, rl.visitors)
}

func TestClientIPIgnoresForwardingHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.0.9:1234"
	req.Header.Set("X-Real-IP", "10.1.1.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	assert.Equal(t, "192.168.0.9", ClientIP(req))

	req.RemoteAddr = "10.9.9.9"
	assert.Equal(t, "10.9.9.9", ClientIP(req))
}

func TestRateLimiterSpoofedForwardedForSharesBucket(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/outreach/inbox/linkedin", nil)
		req.RemoteAddr = "10.0.0.7:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterExemptsInternalToken(t *testing.T) {
	rl := NewRateLimiter(0.001, 1).ExemptToken("s3cret")
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/outreach/campaigns/cam_1/leads/", nil)
		req.RemoteAddr = "127.0.0.1:9000"
		if token != "" {
			req.Header.Set(RelayTokenHeader, token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, send("s3cret"))
	}
	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusTooManyRequests, send(""))
	assert.Equal(t, http.StatusTooManyRequests, send("wrong"))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/leads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := counterValue(t, httpRequestsTotal.WithLabelValues("GET", "/api/leads/{id}/messages", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads/42/messages", nil))
	after := counterValue(t, httpRequestsTotal.WithLabelValues("GET", "/api/leads/{id}/messages", "418"))

	assert.Equal(t, before+1, after)
}

func TestRecordHelpers(t *testing.T) {
	var before float64
	before = counterValue(t, leadSyncs.WithLabelValues("success"))
	RecordLeadSync(true)
	assert.Equal(t, before+1, counterValue(t, leadSyncs.WithLabelValues("success")))
}

func TestRecordWebhookEventBoundsLabels(t *testing.T) {
	known := counterValue(t, webhookEvents.WithLabelValues("linkedinReplied"))
	other := counterValue(t, webhookEvents.WithLabelValues("other"))

	RecordWebhookEvent("linkedinReplied", "linkedinReplied")
	RecordWebhookEvent("", "linkedinReplied")
	RecordWebhookEvent("attacker-chosen-1", "linkedinReplied")
	RecordWebhookEvent("attacker-chosen-2", "linkedinReplied")

	assert.Equal(t, known+1, counterValue(t, webhookEvents.WithLabelValues("linkedinReplied")))
	assert.Equal(t, other+3, counterValue(t, webhookEvents.WithLabelValues("other")))
}

func TestMetricsUnmatchedRouteUsesFixedLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	before := counterValue(t, httpRequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404"))
	for _, path := range []string{"/random/a", "/random/b", "/random/c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, before+3, counterValue(t, httpRequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404")))
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "GET", methodLabel(http.MethodGet))
	assert.Equal(t, "OTHER", methodLabel("BREW"))
}
