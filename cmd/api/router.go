package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/nexus-crm/internal/infra/http/handlers"
	"github.com/xavierca1/nexus-crm/internal/infra/http/middleware"
)

type server struct {
	Health    *handlers.HealthHandler
	Campaigns *handlers.CampaignHandler
	Leads     *handlers.LeadHandler
	Inbox     *handlers.InboxHandler
	Scrape    *handlers.ScrapeHandler
	Proxy     *handlers.ProxyHandler
	Webhook   *handlers.WebhookHandler
	Limiter   *middleware.RateLimiter

	// TrustProxy aplica o RealIP: o IP do rate limit passa a vir dos headers do proxy.
	TrustProxy bool
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		OptionsPassthrough: false,
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", s.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", s.Campaigns.List)
			r.Post("/", s.Campaigns.Create)
			r.Get("/{id}", s.Campaigns.Get)
			r.Get("/{id}/leads", s.Leads.List)
			r.Post("/{id}/leads", s.Leads.SaveCandidates)
			r.Post("/{id}/score", s.Leads.Score)
		})

		r.Put("/leads/{id}/stage", s.Leads.Move)
		r.Get("/leads/{id}/messages", s.Leads.Messages)
		r.Post("/leads/{id}/messages", s.Leads.SendMessage)

		r.Get("/inbox", s.Inbox.Handle)
		r.Post("/scrape", s.Scrape.Handle)

		// Relay para a Lemlist, limitado por IP
		r.Group(func(r chi.Router) {
			r.Use(s.Limiter.Handler)
			for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions} {
				r.MethodFunc(m, "/outreach/campaigns/{campaignId}/leads/", s.Proxy.CampaignLeads)
			}
			r.Post("/outreach/inbox/linkedin", s.Proxy.LinkedInInbox)
			r.Options("/outreach/inbox/linkedin", s.Proxy.LinkedInInbox)
		})

		// O handler responde 405 sozinho para os outros métodos
		r.HandleFunc("/webhooks/outreach", s.Webhook.Handle)
		r.HandleFunc("/webhooks/lemlist", s.Webhook.Handle)
	})

	return r
}
