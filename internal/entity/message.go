package entity

import (
	"context"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderLead Sender = "lead"
)

type Channel string

const (
	ChannelLinkedIn Channel = "LINKEDIN"
	ChannelEmail    Channel = "EMAIL"
)

// Message is append-only: created on send or on webhook delivery, never updated.
type Message struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Channel   Channel   `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// MessageSummary is the latest message of a lead plus its unread inbound count.
type MessageSummary struct {
	LeadID      string
	LastMessage Message
	UnreadCount int
}

// Conversation não é persistida; é montada na leitura do inbox.
type Conversation struct {
	LeadID      string    `json:"leadId"`
	CampaignID  string    `json:"campaignId"`
	LeadName    string    `json:"leadName"`
	LeadAvatar  string    `json:"leadAvatar"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	Channel     Channel   `json:"channel"`
	UnreadCount int       `json:"unreadCount"`
}

type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *Message) error
	ListByLead(ctx context.Context, leadID string) ([]*Message, error)
	Summaries(ctx context.Context, leadIDs []string) (map[string]MessageSummary, error)
}
