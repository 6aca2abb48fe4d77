package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

type ConversationLister interface {
	Conversations(ctx context.Context, campaignID string) ([]entity.Conversation, error)
}

type InboxHandler struct {
	Inbox ConversationLister
}

func NewInboxHandler(inbox ConversationLister) *InboxHandler {
	return &InboxHandler{Inbox: inbox}
}

// Handle (GET /api/inbox?campaignId=)
func (h *InboxHandler) Handle(w http.ResponseWriter, r *http.Request) {
	convs, err := h.Inbox.Conversations(r.Context(), r.URL.Query().Get("campaignId"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}
