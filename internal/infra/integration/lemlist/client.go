package lemlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

const (
	DefaultPhone    = "+33 123456789"
	DefaultTimezone = "Europe/Paris"

	relayTokenHeader = "X-Relay-Token"
)

type Config struct {
	// RelayURL aponta para o proxy (/api/outreach), nunca direto para a Lemlist.
	RelayURL          string
	CampaignID        string
	SendUserID        string
	ContactOwner      string
	PlaceholderDomain string
	Timeout           time.Duration
	// RelayToken vai no header X-Relay-Token; o relay não aplica rate limit a ele.
	RelayToken        string
}

// Client fala com a Lemlist através do proxy. A API key fica só no proxy.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PlaceholderDomain == "" {
		cfg.PlaceholderDomain = "nexus-sep.com"
	}
	cfg.RelayURL = strings.TrimRight(cfg.RelayURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// PlaceholderEmail satisfaz o email obrigatório da Lemlist para leads sem email.
func (c *Client) PlaceholderEmail(leadID string) string {
	return fmt.Sprintf("missing_%s@%s", leadID, c.cfg.PlaceholderDomain)
}

// SyncLead cria o lead na campanha da Lemlist. Nunca devolve erro:
// qualquer falha vira Success=false.
func (c *Client) SyncLead(ctx context.Context, lead *entity.Lead) SyncResult {
	email := c.PlaceholderEmail(lead.ID)
	if lead.Email != nil && *lead.Email != "" {
		email = *lead.Email
	}

	payload := createLeadRequest{
		Email:        email,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		CompanyName:  lead.Company,
		JobTitle:     lead.Title,
		LinkedinURL:  lead.LinkedinURL,
		Phone:        DefaultPhone,
		Timezone:     DefaultTimezone,
		ContactOwner: c.cfg.ContactOwner,
	}

	target := fmt.Sprintf("%s/campaigns/%s/leads/", c.cfg.RelayURL, url.PathEscape(c.cfg.CampaignID))
	log.Printf("🔄 [Lemlist] Sincronizando lead %s na campanha %s", lead.ID, c.cfg.CampaignID)

	status, body, err := c.post(ctx, target, payload)
	if err != nil {
		log.Printf("❌ [Lemlist] Falha de comunicação no sync do lead %s: %v", lead.ID, err)
		return SyncResult{Success: false}
	}
	if status < 200 || status > 299 {
		log.Printf("❌ [Lemlist] Sync do lead %s rejeitado (status %d): %s", lead.ID, status, string(body))
		return SyncResult{Success: false}
	}

	var resp createLeadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("⚠️ [Lemlist] Resposta sem JSON para o lead %s, mas o request foi aceito", lead.ID)
		return SyncResult{Success: true}
	}

	log.Printf("✅ [Lemlist] Lead %s sincronizado (id=%s contact=%s)", lead.ID, resp.ID, resp.ContactID)
	return SyncResult{
		Success:          true,
		LemlistID:        resp.ID,
		LemlistContactID: resp.ContactID,
	}
}

// SendMessage envia uma mensagem de LinkedIn pela inbox da Lemlist.
func (c *Client) SendMessage(ctx context.Context, lemlistID, contactID, text string) bool {
	if lemlistID == "" || contactID == "" {
		log.Println("⚠️ [Lemlist] leadId ou contactId ausente, mensagem não enviada")
		return false
	}

	payload := sendLinkedInRequest{
		SendUserID: c.cfg.SendUserID,
		LeadID:     lemlistID,
		ContactID:  contactID,
		Message:    text,
	}

	status, body, err := c.post(ctx, c.cfg.RelayURL+"/inbox/linkedin", payload)
	if err != nil {
		log.Printf("❌ [Lemlist] Falha ao enviar mensagem para %s: %v", lemlistID, err)
		return false
	}
	if status < 200 || status > 299 {
		log.Printf("❌ [Lemlist] Envio de mensagem rejeitado (status %d): %s", status, string(body))
		return false
	}
	return true
}

func (c *Client) post(ctx context.Context, target string, payload any) (int, []byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("erro ao gerar json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.RelayToken != "" {
		req.Header.Set(relayTokenHeader, c.cfg.RelayToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
