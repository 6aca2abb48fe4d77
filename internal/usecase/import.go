package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

const defaultImportConcurrency = 4

type ImportResult struct {
	Saved      int `json:"saved"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// ImportService salva candidatos do scraper como leads de uma campanha.
type ImportService struct {
	Campaigns   entity.CampaignRepositoryInterface
	Leads       CandidateImporter
	Concurrency int
}

func NewImportService(campaigns entity.CampaignRepositoryInterface, leads CandidateImporter) *ImportService {
	return &ImportService{
		Campaigns:   campaigns,
		Leads:       leads,
		Concurrency: defaultImportConcurrency,
	}
}

func (s *ImportService) Save(ctx context.Context, campaignID string, candidates []entity.Candidate) (*ImportResult, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, validationFailed([]ValidationError{{"campaignId", "is required"}})
	}
	if _, err := s.Campaigns.FindByID(ctx, campaignID); err != nil {
		return nil, storeError(err, "falha ao buscar campanha")
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultImportConcurrency
	}

	var (
		mu            sync.Mutex
		result        ImportResult
		notConfigured int
		configErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, c := range candidates {
		c := c
		g.Go(func() error {
			if strings.TrimSpace(c.LinkedinURL) == "" {
				log.Printf("⚠️ [IMPORT] Candidato %q sem linkedinUrl, ignorado", c.FullName)
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			created, err := s.Leads.AddLead(gctx, c, campaignID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				log.Printf("❌ [IMPORT] Falha ao salvar %s: %v", c.LinkedinURL, err)
				result.Failed++
				if IsConfigurationError(err) {
					notConfigured++
					configErr = err
				}
			case created:
				result.Saved++
			default:
				result.Duplicates++
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(candidates) > 0 && notConfigured == len(candidates) {
		return nil, configErr
	}

	log.Printf("📦 [IMPORT] Campanha %s: %d salvos, %d duplicados, %d falhas", campaignID, result.Saved, result.Duplicates, result.Failed)
	return &result, nil
}
