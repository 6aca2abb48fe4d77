package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/nexus-crm/internal/config"
	"github.com/xavierca1/nexus-crm/internal/infra/database"
	"github.com/xavierca1/nexus-crm/internal/infra/http/handlers"
	"github.com/xavierca1/nexus-crm/internal/infra/http/middleware"
	"github.com/xavierca1/nexus-crm/internal/infra/integration/lemlist"
	"github.com/xavierca1/nexus-crm/internal/infra/mail"
	"github.com/xavierca1/nexus-crm/internal/infra/queue"
	"github.com/xavierca1/nexus-crm/internal/infra/scraper"
	"github.com/xavierca1/nexus-crm/internal/infra/worker"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuração inválida: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuração inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.NewDBConnection(dsn)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no banco: %v", err)
	}
	defer db.Close()
	log.Println("✅ Conectado ao Postgres")

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	messageRepo := database.NewMessageRepository(db)

	// 2. Eventos: RabbitMQ quando configurado, senão no próprio processo
	dispatcher := queue.NewDispatcher()
	if notifier := mail.NewReplyNotifier(cfg.Mail); notifier != nil {
		dispatcher.On(queue.EventMessageInbound, notifier.HandleInbound)
	}

	var publisher usecase.EventPublisher
	var rabbitStatus handlers.ConnectionStatus
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		rabbitStatus = rabbitMQ

		consumer := queue.NewWorker(rabbitMQ.Ch, dispatcher)
		go func() {
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ [WORKER] %v", err)
			}
		}()
	} else {
		log.Println("⚠️ AMQP_URL não configurado: eventos processados no próprio processo")
		local := queue.NewLocalPublisher(dispatcher)
		defer local.Wait()
		publisher = local
	}

	// 3. Gateways
	// token das chamadas internas ao relay, novo a cada processo
	relayToken := uuid.New().String()
	outreach := lemlist.NewClient(lemlist.Config{
		RelayURL:          cfg.Lemlist.RelayURL,
		CampaignID:        cfg.Lemlist.CampaignID,
		SendUserID:        cfg.Lemlist.SendUserID,
		ContactOwner:      cfg.Lemlist.ContactOwner,
		PlaceholderDomain: cfg.Lemlist.PlaceholderDomain,
		Timeout:           cfg.HTTPTimeout,
		RelayToken:        relayToken,
	})
	actor, err := scraper.NewMockActor(1500 * time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}

	// 4. UseCases
	pipeline := usecase.NewPipeline(leadRepo, messageRepo, outreach, publisher)
	campaigns := usecase.NewCampaignService(campaignRepo)
	inbox := usecase.NewInboxService(leadRepo, messageRepo)
	importer := usecase.NewImportService(campaignRepo, leadRepo)
	scoring := usecase.NewScoringService(campaignRepo, leadRepo, nil)

	// 5. Handlers
	limiter := middleware.NewRateLimiter(cfg.RelayRateLimit, cfg.RelayRateBurst).ExemptToken(relayToken)
	srv := &server{
		Health:    handlers.NewHealthHandler(db, rabbitStatus, cfg.Lemlist.APIKey != ""),
		Campaigns: handlers.NewCampaignHandler(campaigns),
		Leads:     handlers.NewLeadHandler(pipeline, importer, scoring, inbox),
		Inbox:     handlers.NewInboxHandler(inbox),
		Scrape:    handlers.NewScrapeHandler(actor, importer),
		Proxy:     handlers.NewProxyHandler(cfg.Lemlist.APIKey, cfg.Lemlist.APIURL, cfg.HTTPTimeout),
		Webhook:   handlers.NewWebhookHandler(pipeline),
		Limiter:   limiter,

		TrustProxy: cfg.TrustProxy,
	}

	go worker.NewCleanupWorker(limiter, time.Minute).Start(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Nexus CRM rodando na porta %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Desligando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown forçado: %v", err)
	}
}
