package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstreamCall struct {
	method, path, query, auth, body string
}

func newUpstream(t *testing.T, status int, contentType, body string) (*httptest.Server, *int32, *upstreamCall) {
	t.Helper()
	var calls int32
	last := &upstreamCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		b, _ := io.ReadAll(r.Body)
		*last = upstreamCall{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(b)}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, last
}

func proxyRouter(h *ProxyHandler) http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/api/outreach/campaigns/{campaignId}/leads/", h.CampaignLeads)
	r.HandleFunc("/api/outreach/inbox/linkedin", h.LinkedInInbox)
	return r
}

func TestProxyWithoutCredentialMakesNoUpstreamCall(t *testing.T) {
	srv, calls, _ := newUpstream(t, 200, "application/json", `{}`)
	h := NewProxyHandler("", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/campaigns/cam1/leads/", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server configuration error", body["error"])
	assert.Equal(t, "Lemlist API key is not configured", body["message"])
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestProxyUsesServerCredentialWithBasicPrefix(t *testing.T) {
	srv, _, last := newUpstream(t, http.StatusCreated, "application/json", `{"_id":"ext1"}`)
	h := NewProxyHandler("secret-key", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/campaigns/cam1/leads/?deduplicate=true", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Authorization", "Bearer from-the-browser")
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"_id":"ext1"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, "Basic secret-key", last.auth)
	assert.Equal(t, "/api/campaigns/cam1/leads/", last.path)
	assert.Equal(t, "deduplicate=true", last.query)
	assert.JSONEq(t, `{"email":"a@b.c"}`, last.body)
}

func TestProxyKeepsPreformattedCredential(t *testing.T) {
	srv, _, last := newUpstream(t, 200, "application/json", `{"ok":true}`)
	h := NewProxyHandler("Basic OmtleQ==", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/inbox/linkedin", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Basic OmtleQ==", last.auth)
	assert.Equal(t, "/api/inbox/linkedin", last.path)
}

func TestProxyRelaysTextResponses(t *testing.T) {
	srv, _, _ := newUpstream(t, http.StatusBadRequest, "text/html", "Lead already in campaign")
	h := NewProxyHandler("k", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/campaigns/cam1/leads/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Lead already in campaign", rec.Body.String())
}

func TestProxyRejectsInvalidJSONBody(t *testing.T) {
	srv, calls, _ := newUpstream(t, 200, "application/json", `{}`)
	h := NewProxyHandler("k", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/inbox/linkedin", strings.NewReader(`{oops`))
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestProxyEmptyPostSendsEmptyObject(t *testing.T) {
	srv, _, last := newUpstream(t, 200, "application/json", `{}`)
	h := NewProxyHandler("k", srv.URL, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/outreach/campaigns/c/leads/", nil)
	proxyRouter(h).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "{}", last.body)
}

func TestProxyPreflight(t *testing.T) {
	srv, calls, _ := newUpstream(t, 200, "application/json", `{}`)
	h := NewProxyHandler("", srv.URL, 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/outreach/campaigns/cam1/leads/", nil)
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestProxyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := NewProxyHandler("k", url, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/outreach/campaigns/cam1/leads/", nil)
	rec := httptest.NewRecorder()
	proxyRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "Basic k")
}
