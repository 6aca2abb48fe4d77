package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

type CampaignManager interface {
	Create(ctx context.Context, input usecase.CreateCampaignInput) (*entity.Campaign, error)
	List(ctx context.Context) ([]*entity.Campaign, error)
	Get(ctx context.Context, id string) (*entity.Campaign, error)
}

type CampaignHandler struct {
	Campaigns CampaignManager
}

func NewCampaignHandler(c CampaignManager) *CampaignHandler {
	return &CampaignHandler{Campaigns: c}
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Campaigns.List(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCampaignInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	c, err := h.Campaigns.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
