package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// handlePreflight responde OPTIONS com 200 e corpo vazio.
func handlePreflight(w http.ResponseWriter, r *http.Request) bool {
	setCORSHeaders(w)
	if r.Method != http.MethodOptions {
		return false
	}
	w.WriteHeader(http.StatusOK)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Falha ao escrever resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz os erros das camadas internas para HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	var te *usecase.TechnicalError

	switch {
	case usecase.IsConfigurationError(err):
		writeErrorResponse(w, http.StatusServiceUnavailable, "STORE_NOT_CONFIGURED", "Database tables are missing. Run the migrations.")
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeLeadNotFound, "Lead not found")
	case errors.Is(err, entity.ErrCampaignNotFound):
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeCampaignNotFound, "Campaign not found")
	case errors.As(err, &de):
		status := http.StatusBadRequest
		if strings.HasSuffix(de.Code, "_NOT_FOUND") {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, de.Code, de.Message)
	case errors.As(err, &te):
		log.Printf("❌ %s: %v", te.Code, err)
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
	default:
		log.Printf("❌ Erro inesperado: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
