package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/queue"
)

const (
	NotifySynced     = "Lead synced to Lemlist"
	NotifySyncFailed = "Lead moved to qualified, but the Lemlist sync failed. Move it again to retry."
)

type MoveResult struct {
	Lead          *entity.Lead `json:"lead"`
	SyncAttempted bool         `json:"syncAttempted"`
	Synced        bool         `json:"synced"`
	SyncError     string       `json:"syncError,omitempty"`
	Notification  string       `json:"notification,omitempty"`
}

type SendResult struct {
	Lead             *entity.Lead    `json:"lead"`
	Message          *entity.Message `json:"message,omitempty"`
	Sent             bool            `json:"sent"`
	ManualContactURL string          `json:"manualContactUrl,omitempty"`
}

type InboundReply struct {
	LeadID    string
	Content   string
	Timestamp time.Time
}

// Pipeline mantém o board local (cache otimista) e coordena store, Lemlist e eventos.
type Pipeline struct {
	Leads     entity.LeadRepositoryInterface
	Messages  entity.MessageRepositoryInterface
	Outreach  OutreachClient
	Publisher EventPublisher

	mu    sync.Mutex
	board map[string]*entity.Lead

	// um sync em voo por lead
	syncing singleflight.Group
}

func NewPipeline(leads entity.LeadRepositoryInterface, messages entity.MessageRepositoryInterface, outreach OutreachClient, publisher EventPublisher) *Pipeline {
	return &Pipeline{
		Leads:     leads,
		Messages:  messages,
		Outreach:  outreach,
		Publisher: publisher,
		board:     make(map[string]*entity.Lead),
	}
}

// Load troca o board pelos leads da campanha (ou todos, com campaignID vazio).
func (p *Pipeline) Load(ctx context.Context, campaignID string) ([]*entity.Lead, error) {
	leads, err := p.Leads.List(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.board = make(map[string]*entity.Lead, len(leads))
	out := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		p.board[l.ID] = l.Clone()
		out = append(out, l.Clone())
	}
	return out, nil
}

// Lead devolve uma cópia do lead no board. Fora do board a leitura vai ao store
// e não entra no cache.
func (p *Pipeline) Lead(ctx context.Context, leadID string) (*entity.Lead, error) {
	p.mu.Lock()
	l, ok := p.board[leadID]
	p.mu.Unlock()
	if ok {
		return l.Clone(), nil
	}
	return p.Leads.FindByID(ctx, leadID)
}

// refresh substitui a entrada do board, se existir, pela cópia persistida.
func (p *Pipeline) refresh(l *entity.Lead) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.board[l.ID]; ok {
		p.board[l.ID] = l.Clone()
	}
}

func (p *Pipeline) setStage(leadID string, stage entity.LeadStage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.board[leadID]; ok {
		l.Stage = stage
	}
}

func (p *Pipeline) MoveLead(ctx context.Context, leadID string, stage entity.LeadStage) (*MoveResult, error) {
	if _, err := entity.ParseLeadStage(string(stage)); err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	lead, err := p.Lead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	previous := lead.Stage

	err = NewTransaction().
		Step("board",
			func(context.Context) error { p.setStage(leadID, stage); return nil },
			func(context.Context) error { p.setStage(leadID, previous); return nil }).
		Step("persist_stage",
			func(ctx context.Context) error { return p.Leads.UpdateLeadStage(ctx, leadID, stage) },
			nil).
		Execute(ctx)
	if err != nil {
		log.Printf("❌ [PIPELINE] Falha ao mover lead %s para %s: %v", leadID, stage, err)
		return nil, storeError(err, "falha ao salvar o stage do lead")
	}

	// o stage já está no store; a cópia local só acompanha
	lead.Stage = stage
	result := &MoveResult{Lead: lead}

	if stage == entity.StageQualified && !lead.LemlistSynced {
		result.SyncAttempted = true
		v, _, _ := p.syncing.Do(leadID, func() (any, error) {
			return p.syncLead(ctx, leadID), nil
		})
		outcome := v.(syncOutcome)
		result.Synced = outcome.synced
		result.SyncError = outcome.err
		if outcome.lead != nil {
			// quem entrou no mesmo voo recebe o mesmo ponteiro
			result.Lead = outcome.lead.Clone()
		}
		if outcome.synced {
			result.Notification = NotifySynced
		} else {
			result.Notification = NotifySyncFailed
		}
	}

	e := queue.NewEvent(queue.EventLeadStageChanged, leadID)
	e.Stage = string(stage)
	e.PreviousStage = string(previous)
	e.LeadName = result.Lead.FullName()
	if result.Lead.CampaignID != nil {
		e.CampaignID = *result.Lead.CampaignID
	}
	p.publish(ctx, e)

	return result, nil
}

type syncOutcome struct {
	synced bool
	err    string
	// lead como ficou no store depois do sync; nil se o sync falhou
	lead *entity.Lead
}

// syncLead roda dentro do singleflight, então no máximo uma chamada por lead.
// O lead vem sempre do store: o UpdateLead grava a linha inteira e o board pode
// estar atrás de outros escritores.
func (p *Pipeline) syncLead(ctx context.Context, leadID string) syncOutcome {
	// board marcado e store não: sincronizado mas não persistido, não duplica lá fora
	p.mu.Lock()
	cur, ok := p.board[leadID]
	if ok && cur.LemlistSynced {
		cur = cur.Clone()
	} else {
		cur = nil
	}
	p.mu.Unlock()
	if cur != nil {
		return syncOutcome{synced: true, lead: cur}
	}

	lead, err := p.Leads.FindByID(ctx, leadID)
	if err != nil {
		return syncOutcome{err: err.Error()}
	}
	if lead.LemlistSynced {
		p.refresh(lead)
		return syncOutcome{synced: true, lead: lead}
	}

	log.Printf("🔄 [PIPELINE] Lead %s qualificado, iniciando sync com a Lemlist", leadID)
	res := p.Outreach.SyncLead(ctx, lead)
	if !res.Success {
		log.Printf("⚠️ [PIPELINE] Sync do lead %s falhou; stage mantido em qualified", leadID)
		return syncOutcome{err: "lemlist sync failed"}
	}

	lead.MarkSynced(res.LemlistID, res.LemlistContactID)
	// O lead já existe na Lemlist; o board fica marcado mesmo se o UpdateLead falhar.
	p.refresh(lead)

	if err := p.Leads.UpdateLead(ctx, lead); err != nil {
		log.Printf("❌ [PIPELINE] Lead %s sincronizado mas não persistido: %v", leadID, err)
		return syncOutcome{synced: true, err: "synced but not persisted", lead: lead}
	}

	e := queue.NewEvent(queue.EventLeadSynced, leadID)
	e.LeadName = lead.FullName()
	if lead.LemlistID != nil {
		e.LemlistID = *lead.LemlistID
	}
	p.publish(ctx, e)

	log.Printf("✅ [PIPELINE] Lead %s sincronizado com a Lemlist", leadID)
	return syncOutcome{synced: true, lead: lead}
}

func (p *Pipeline) SendOutboundMessage(ctx context.Context, leadID, text string) (*SendResult, error) {
	if errs := ValidateOutboundMessage(text); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := p.Lead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	result := &SendResult{}

	if lead.HasOutreachIDs() {
		if !p.Outreach.SendMessage(ctx, *lead.LemlistID, *lead.LemlistContactID, text) {
			return nil, &TechnicalError{Code: CodeOutreachFailed, Message: "Failed to send message via Lemlist"}
		}

		msg := &entity.Message{
			LeadID:  leadID,
			Sender:  entity.SenderUser,
			Content: text,
			Channel: entity.ChannelLinkedIn,
			Read:    true,
		}
		if err := p.Messages.Create(ctx, msg); err != nil {
			log.Printf("❌ [PIPELINE] Mensagem enviada para %s mas não gravada: %v", leadID, err)
			return nil, storeError(err, "mensagem enviada, mas não foi possível gravá-la")
		}
		result.Message = msg
		result.Sent = true
	} else {
		if strings.TrimSpace(lead.LinkedinURL) == "" {
			return nil, &DomainError{Code: CodeNoContactChannel, Message: "Lead is not synced with Lemlist and has no LinkedIn URL"}
		}
		result.ManualContactURL = lead.LinkedinURL
	}

	// Catraca: só avança, nunca volta.
	if lead.CanAutoAdvance() {
		moved, err := p.MoveLead(ctx, leadID, entity.StageOutreach)
		if err != nil {
			return nil, err
		}
		result.Lead = moved.Lead
	} else {
		result.Lead = lead
	}

	return result, nil
}

// RecordInboundReply grava a resposta vinda do webhook e marca o lead como replied.
func (p *Pipeline) RecordInboundReply(ctx context.Context, in InboundReply) (*entity.Message, error) {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	msg := &entity.Message{
		LeadID:    in.LeadID,
		Sender:    entity.SenderLead,
		Content:   in.Content,
		Channel:   entity.ChannelLinkedIn,
		Timestamp: ts,
	}
	if err := p.Messages.Create(ctx, msg); err != nil {
		log.Printf("❌ [PIPELINE] Falha ao gravar resposta do lead %s: %v", in.LeadID, err)
		return nil, fmt.Errorf("%w: %v", ErrMessagePersist, err)
	}

	if err := p.Leads.UpdateLeadStage(ctx, in.LeadID, entity.StageReplied); err != nil {
		log.Printf("⚠️ [PIPELINE] Resposta gravada mas stage do lead %s não atualizado: %v", in.LeadID, err)
	} else {
		p.setStage(in.LeadID, entity.StageReplied)
	}

	e := queue.NewEvent(queue.EventMessageInbound, in.LeadID)
	e.Content = in.Content
	e.Stage = string(entity.StageReplied)
	p.mu.Lock()
	if l, ok := p.board[in.LeadID]; ok {
		e.LeadName = l.FullName()
	}
	p.mu.Unlock()
	p.publish(ctx, e)

	return msg, nil
}

func (p *Pipeline) publish(ctx context.Context, e queue.Event) {
	if p.Publisher == nil {
		return
	}
	if err := p.Publisher.Publish(ctx, e); err != nil {
		log.Printf("⚠️ [EVENTS] Falha ao publicar %s do lead %s: %v", e.Type, e.LeadID, err)
	}
}

// storeError preserva not found e erro de configuração; o resto vira DATABASE_ERROR.
func storeError(err error, msg string) error {
	if errors.Is(err, entity.ErrLeadNotFound) || errors.Is(err, entity.ErrCampaignNotFound) || IsConfigurationError(err) {
		return err
	}
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}
