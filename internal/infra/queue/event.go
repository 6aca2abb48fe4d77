package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventLeadStageChanged = "lead.stage_changed"
	EventLeadSynced       = "lead.synced"
	EventMessageInbound   = "message.inbound"
)

var EventTypes = []string{EventLeadStageChanged, EventLeadSynced, EventMessageInbound}

// Event é o envelope publicado no exchange. Type também é a routing key.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	LeadID        string    `json:"leadId"`
	LeadName      string    `json:"leadName,omitempty"`
	CampaignID    string    `json:"campaignId,omitempty"`
	Stage         string    `json:"stage,omitempty"`
	PreviousStage string    `json:"previousStage,omitempty"`
	LemlistID     string    `json:"lemlistId,omitempty"`
	Content       string    `json:"content,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func NewEvent(eventType, leadID string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		LeadID:     leadID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
