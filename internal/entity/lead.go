package entity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// LeadStage é a coluna do kanban onde o lead está.
type LeadStage string

const (
	StageProspecting LeadStage = "prospecting"
	StageQualified   LeadStage = "qualified"
	StageOutreach    LeadStage = "outreach"
	StageReplied     LeadStage = "replied"
	StageMeeting     LeadStage = "meeting" // reservado, ainda sem coluna no front
)

var leadStages = []LeadStage{StageProspecting, StageQualified, StageOutreach, StageReplied, StageMeeting}

func ParseLeadStage(s string) (LeadStage, error) {
	for _, st := range leadStages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("stage inválido: %q", s)
}

type EmailStatus string

const (
	EmailValid   EmailStatus = "valid"
	EmailRisky   EmailStatus = "risky"
	EmailMissing EmailStatus = "missing"
)

// Legacy free-text status values.
const (
	StatusScraped = "SCRAPED"
	StatusSynced  = "SYNCED_LEMLIST"
)

type Lead struct {
	ID               string      `json:"id"`
	CampaignID       *string     `json:"campaignId,omitempty"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	Headline         string      `json:"headline"`
	Company          string      `json:"company"`
	Title            string      `json:"title"`
	Location         string      `json:"location"`
	LinkedinURL      string      `json:"linkedinUrl"`
	Email            *string     `json:"email,omitempty"`
	EmailStatus      EmailStatus `json:"emailStatus"`
	Stage            LeadStage   `json:"stage"`
	Status           string      `json:"status"`
	ScrapedAt        time.Time   `json:"scrapedAt"`
	AvatarURL        string      `json:"avatarUrl"`
	Summary          string      `json:"summary"`
	AIScore          *int        `json:"aiScore,omitempty"`
	AIReasoning      *string     `json:"aiReasoning,omitempty"`
	LemlistSynced    bool        `json:"lemlistSynced"`
	LemlistID        *string     `json:"lemlistId,omitempty"`
	LemlistContactID *string     `json:"lemlistContactId,omitempty"`
}

// Normalize aplica as invariantes de email e score antes de persistir.
func (l *Lead) Normalize() {
	if l.Email != nil && strings.TrimSpace(*l.Email) == "" {
		l.Email = nil
	}
	switch {
	case l.Email == nil:
		l.EmailStatus = EmailMissing
	case l.EmailStatus == EmailMissing || l.EmailStatus == "":
		l.EmailStatus = EmailRisky
	}
	if l.AIScore != nil {
		score := *l.AIScore
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		l.AIScore = &score
	}
	if l.Stage == "" {
		l.Stage = StageProspecting
	}
}

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// HasOutreachIDs reports whether both Lemlist identifiers are known.
func (l *Lead) HasOutreachIDs() bool {
	return l.LemlistID != nil && *l.LemlistID != "" &&
		l.LemlistContactID != nil && *l.LemlistContactID != ""
}

// MarkSynced guarda os dois IDs externos juntos, ou nenhum.
func (l *Lead) MarkSynced(lemlistID, contactID string) {
	l.LemlistSynced = true
	l.Status = StatusSynced

	if lemlistID != "" && contactID != "" {
		l.LemlistID = &lemlistID
		l.LemlistContactID = &contactID
		return
	}
	if lemlistID != "" || contactID != "" {
		log.Printf("⚠️ Lead %s: Lemlist devolveu IDs incompletos (lead=%q contact=%q), descartando", l.ID, lemlistID, contactID)
	}
	l.LemlistID = nil
	l.LemlistContactID = nil
}

// CanAutoAdvance is true for stages the outbound-send ratchet may move forward.
func (l *Lead) CanAutoAdvance() bool {
	return l.Stage == StageProspecting || l.Stage == StageQualified
}

func (l *Lead) Clone() *Lead {
	c := *l
	return &c
}

type LeadRepositoryInterface interface {
	AddLead(ctx context.Context, candidate Candidate, campaignID string) (created bool, err error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, campaignID string) ([]*Lead, error)
	UpdateLead(ctx context.Context, lead *Lead) error
	UpdateLeadStage(ctx context.Context, leadID string, stage LeadStage) error
}
