package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeConn struct{ closed bool }

func (f fakeConn) IsClosed() bool { return f.closed }

func health(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rec := do(http.HandlerFunc(h.Handle), http.MethodGet, "/health", "")
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealthAllHealthy(t *testing.T) {
	code, resp := health(t, NewHealthHandler(fakePinger{}, fakeConn{}, true))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["database"])
	assert.Equal(t, "healthy", resp.Dependencies["rabbitmq"])
	assert.Equal(t, "configured", resp.Dependencies["lemlist"])
}

func TestHealthOptionalDependencies(t *testing.T) {
	code, resp := health(t, NewHealthHandler(fakePinger{}, nil, false))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])
	assert.Equal(t, "not configured", resp.Dependencies["lemlist"])
}

func TestHealthDegraded(t *testing.T) {
	code, resp := health(t, NewHealthHandler(fakePinger{err: errors.New("refused")}, fakeConn{closed: true}, true))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy: refused", resp.Dependencies["database"])
	assert.Equal(t, "unhealthy: connection closed", resp.Dependencies["rabbitmq"])
}
