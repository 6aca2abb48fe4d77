package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const DefaultLemlistURL = "https://api.lemlist.com"

// ProxyHandler repassa chamadas do front para a Lemlist com a API key do servidor.
// Nunca usa o Authorization que vem do cliente.
type ProxyHandler struct {
	APIKey      string
	UpstreamURL string
	Client      *http.Client
}

func NewProxyHandler(apiKey, upstreamURL string, timeout time.Duration) *ProxyHandler {
	if upstreamURL == "" {
		upstreamURL = DefaultLemlistURL
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ProxyHandler{
		APIKey:      apiKey,
		UpstreamURL: strings.TrimRight(upstreamURL, "/"),
		Client:      &http.Client{Timeout: timeout},
	}
}

// CampaignLeads: /api/outreach/campaigns/{campaignId}/leads/
func (h *ProxyHandler) CampaignLeads(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")
	h.relay(w, r, "/api/campaigns/"+url.PathEscape(campaignID)+"/leads/")
}

// LinkedInInbox: /api/outreach/inbox/linkedin
func (h *ProxyHandler) LinkedInInbox(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, "/api/inbox/linkedin")
}

func (h *ProxyHandler) authorization() string {
	if strings.HasPrefix(h.APIKey, "Basic ") {
		return h.APIKey
	}
	return "Basic " + h.APIKey
}

func (h *ProxyHandler) relay(w http.ResponseWriter, r *http.Request, path string) {
	if handlePreflight(w, r) {
		return
	}

	if h.APIKey == "" {
		log.Println("❌ [PROXY] LEMLIST_API_KEY não configurada")
		writeErrorResponse(w, http.StatusInternalServerError, "Server configuration error", "Lemlist API key is not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "request body is not valid JSON")
		return
	}

	var reqBody io.Reader
	switch {
	case len(bytes.TrimSpace(body)) > 0:
		reqBody = bytes.NewReader(body)
	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		reqBody = strings.NewReader("{}")
	}

	target := h.UpstreamURL + path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, reqBody)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", h.authorization())

	log.Printf("🔀 [PROXY] %s %s", r.Method, path)

	resp, err := h.Client.Do(req)
	if err != nil {
		log.Printf("❌ [PROXY] Erro ao chamar a Lemlist: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	log.Printf("🔀 [PROXY] Lemlist respondeu %d", resp.StatusCode)

	if json.Valid(respBody) {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(respBody)
}
