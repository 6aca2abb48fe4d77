package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/scraper"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

type ProfileSearcher interface {
	Search(ctx context.Context, q scraper.Query) ([]scraper.Profile, error)
}

type ScrapeHandler struct {
	Actor    ProfileSearcher
	Importer CandidateSaver
}

func NewScrapeHandler(actor ProfileSearcher, importer CandidateSaver) *ScrapeHandler {
	return &ScrapeHandler{Actor: actor, Importer: importer}
}

type ScrapeRequest struct {
	scraper.Query
	// CampaignID opcional: quando presente os candidatos já são salvos.
	CampaignID string `json:"campaignId"`
}

type ScrapeResponse struct {
	Candidates []entity.Candidate    `json:"candidates"`
	Import     *usecase.ImportResult `json:"import,omitempty"`
}

// Handle (POST /api/scrape)
func (h *ScrapeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	profiles, err := h.Actor.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, scraper.ErrKeywordRequired) {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "SCRAPE_FAILED", "Failed to load mock data")
		return
	}

	resp := ScrapeResponse{Candidates: make([]entity.Candidate, 0, len(profiles))}
	for _, p := range profiles {
		resp.Candidates = append(resp.Candidates, p.ToCandidate())
	}

	if req.CampaignID != "" {
		res, err := h.Importer.Save(r.Context(), req.CampaignID, resp.Candidates)
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		resp.Import = res
	}

	writeJSON(w, http.StatusOK, resp)
}
