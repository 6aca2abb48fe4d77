package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/xavierca1/nexus-crm/internal/config"
	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/integration/lemlist"
)

// Smoke test do sync: precisa da API rodando (relay) e das variáveis da Lemlist.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if cfg.Lemlist.CampaignID == "" {
		log.Fatal("❌ LEMLIST_CAMPAIGN_ID deve estar configurado no .env")
	}

	client := lemlist.NewClient(lemlist.Config{
		RelayURL:          cfg.Lemlist.RelayURL,
		CampaignID:        cfg.Lemlist.CampaignID,
		SendUserID:        cfg.Lemlist.SendUserID,
		ContactOwner:      cfg.Lemlist.ContactOwner,
		PlaceholderDomain: cfg.Lemlist.PlaceholderDomain,
		Timeout:           cfg.HTTPTimeout,
	})

	lead := &entity.Lead{
		ID:          uuid.New().String(),
		FirstName:   "Joao",
		LastName:    "Teste da Silva",
		Company:     "Nexus Test",
		Title:       "CTO",
		LinkedinURL: "https://linkedin.com/in/joao-teste",
		Stage:       entity.StageQualified,
	}
	lead.Normalize()

	fmt.Println("🔄 Sincronizando lead com a Lemlist...")
	fmt.Printf("📋 Dados:\n")
	fmt.Printf("   Nome: %s\n", lead.FullName())
	fmt.Printf("   Email: %s\n", client.PlaceholderEmail(lead.ID))
	fmt.Printf("   Campanha: %s\n", cfg.Lemlist.CampaignID)
	fmt.Printf("   Relay: %s\n\n", cfg.Lemlist.RelayURL)

	ctx := context.Background()
	res := client.SyncLead(ctx, lead)
	if !res.Success {
		log.Fatal("❌ Sync falhou; veja o log do relay")
	}

	fmt.Printf("✅ Lead sincronizado!\n")
	fmt.Printf("   Lemlist ID: %s\n", res.LemlistID)
	fmt.Printf("   Contact ID: %s\n", res.LemlistContactID)

	text := os.Getenv("LEMLIST_TEST_MESSAGE")
	if text == "" {
		return
	}
	if client.SendMessage(ctx, res.LemlistID, res.LemlistContactID, text) {
		fmt.Println("💬 Mensagem enviada pelo LinkedIn")
	} else {
		fmt.Println("⚠️ Mensagem não enviada (sem ids ou rejeitada)")
	}
}
