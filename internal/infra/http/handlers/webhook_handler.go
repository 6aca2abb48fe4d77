package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/http/middleware"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

const EventLinkedInReplied = "linkedinReplied"

type ReplyRecorder interface {
	RecordInboundReply(ctx context.Context, in usecase.InboundReply) (*entity.Message, error)
}

// WebhookHandler recebe os eventos da Lemlist. Não deduplica: a mesma
// entrega recebida duas vezes grava duas mensagens.
type WebhookHandler struct {
	Replies ReplyRecorder
}

func NewWebhookHandler(replies ReplyRecorder) *WebhookHandler {
	return &WebhookHandler{Replies: replies}
}

type webhookEvent struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	LeadID    string `json:"leadId"`
	ContactID string `json:"contactId"`
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
}

func (e webhookEvent) kind() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Event
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var event webhookEvent
	if err := decodeJSON(w, r, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	kind := event.kind()
	middleware.RecordWebhookEvent(kind, EventLinkedInReplied)
	log.Printf("📨 [WEBHOOK] Evento recebido: %q (lead %s)", kind, event.LeadID)

	if kind == EventLinkedInReplied {
		if event.LeadID == "" || event.Message == "" {
			log.Printf("❌ [WEBHOOK] Campos obrigatórios ausentes: leadId=%q", event.LeadID)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
			return
		}

		_, err := h.Replies.RecordInboundReply(r.Context(), usecase.InboundReply{
			LeadID:    event.LeadID,
			Content:   event.Message,
			Timestamp: parseTimestamp(event.Timestamp),
		})
		if err != nil {
			if errors.Is(err, usecase.ErrMessagePersist) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store message"})
				return
			}
			log.Printf("❌ [WEBHOOK] Erro ao processar resposta: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}
		log.Printf("✅ [WEBHOOK] Resposta do lead %s gravada", event.LeadID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Webhook received and processed successfully",
		"received": true,
	})
}

// parseTimestamp devolve zero quando ausente ou inválido; o pipeline usa agora.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	log.Printf("⚠️ [WEBHOOK] Timestamp inválido %q, usando o horário atual", s)
	return time.Time{}
}
