package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/http/middleware"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

type LeadPipeline interface {
	Load(ctx context.Context, campaignID string) ([]*entity.Lead, error)
	MoveLead(ctx context.Context, leadID string, stage entity.LeadStage) (*usecase.MoveResult, error)
	SendOutboundMessage(ctx context.Context, leadID, text string) (*usecase.SendResult, error)
}

type CandidateSaver interface {
	Save(ctx context.Context, campaignID string, candidates []entity.Candidate) (*usecase.ImportResult, error)
}

type LeadScorer interface {
	ScoreLeads(ctx context.Context, campaignID string, leadIDs []string) ([]*entity.Lead, error)
}

type MessageLister interface {
	Messages(ctx context.Context, leadID string) ([]*entity.Message, error)
}

type LeadHandler struct {
	Pipeline LeadPipeline
	Importer CandidateSaver
	Scoring  LeadScorer
	Inbox    MessageLister
}

func NewLeadHandler(p LeadPipeline, importer CandidateSaver, scoring LeadScorer, inbox MessageLister) *LeadHandler {
	return &LeadHandler{
		Pipeline: p,
		Importer: importer,
		Scoring:  scoring,
		Inbox:    inbox,
	}
}

// List (GET /api/campaigns/{id}/leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Pipeline.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

type SaveCandidatesRequest struct {
	Candidates []entity.Candidate `json:"candidates"`
}

// SaveCandidates (POST /api/campaigns/{id}/leads)
func (h *LeadHandler) SaveCandidates(w http.ResponseWriter, r *http.Request) {
	var req SaveCandidatesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	if len(req.Candidates) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "candidates: is required")
		return
	}

	res, err := h.Importer.Save(r.Context(), chi.URLParam(r, "id"), req.Candidates)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type ScoreRequest struct {
	LeadIDs []string `json:"leadIds"`
}

// Score (POST /api/campaigns/{id}/score). Corpo vazio pontua todos os leads sem score.
func (h *LeadHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
			return
		}
	}

	leads, err := h.Scoring.ScoreLeads(r.Context(), chi.URLParam(r, "id"), req.LeadIDs)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

type MoveLeadRequest struct {
	Stage string `json:"stage"`
}

// Move (PUT /api/leads/{id}/stage)
func (h *LeadHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveLeadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	stage, err := entity.ParseLeadStage(req.Stage)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
		return
	}

	res, err := h.Pipeline.MoveLead(r.Context(), chi.URLParam(r, "id"), stage)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if res.SyncAttempted {
		middleware.RecordLeadSync(res.Synced)
	}
	writeJSON(w, http.StatusOK, res)
}

// Messages (GET /api/leads/{id}/messages)
func (h *LeadHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Inbox.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage (POST /api/leads/{id}/messages)
func (h *LeadHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	res, err := h.Pipeline.SendOutboundMessage(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if res.Sent {
		middleware.RecordOutreachMessage(string(entity.ChannelLinkedIn))
	} else {
		middleware.RecordOutreachMessage("MANUAL")
	}
	writeJSON(w, http.StatusOK, res)
}
