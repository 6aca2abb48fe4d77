package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const Version = "1.0.0"

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ConnectionStatus interface {
	IsClosed() bool
}

type HealthHandler struct {
	DB        Pinger
	RabbitMQ  ConnectionStatus
	Lemlist   bool
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler aceita nil para dependências não configuradas.
func NewHealthHandler(db Pinger, rabbitMQ ConnectionStatus, lemlistConfigured bool) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		Lemlist:   lemlistConfigured,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) databaseState(ctx context.Context) string {
	if h.DB == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (h *HealthHandler) brokerState() string {
	switch {
	case h.RabbitMQ == nil:
		return "not configured"
	case h.RabbitMQ.IsClosed():
		return "unhealthy: connection closed"
	default:
		return "healthy"
	}
}

// Handle (GET /health). Lemlist ausente não derruba o status: só o relay fica indisponível.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	lemlist := "not configured"
	if h.Lemlist {
		lemlist = "configured"
	}

	resp := HealthResponse{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: map[string]string{
			"database": h.databaseState(r.Context()),
			"rabbitmq": h.brokerState(),
			"lemlist":  lemlist,
		},
	}

	code := http.StatusOK
	for _, state := range resp.Dependencies {
		if strings.HasPrefix(state, "unhealthy") {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, resp)
}
