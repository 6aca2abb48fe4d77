package usecase

import (
	"context"
	"hash/fnv"
	"log"
	"strings"
	"unicode"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

type LeadScore struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// KeywordScorer pontua de 60 a 99 pela sobreposição entre o alvo da
// campanha e o título/headline/localização do lead.
type KeywordScorer struct{}

func (KeywordScorer) Score(c *entity.Campaign, l *entity.Lead) LeadScore {
	target := tokens(c.TargetJobTitle + " " + c.TargetLocation)
	profile := make(map[string]bool)
	for _, t := range tokens(l.Title + " " + l.Headline + " " + l.Location) {
		profile[t] = true
	}

	matched := 0
	for _, t := range target {
		if profile[t] {
			matched++
		}
	}

	score := 60
	if len(target) > 0 {
		score += matched * 39 / len(target)
	}
	// Desempate estável para leads com a mesma sobreposição.
	if score < 99 {
		h := fnv.New32a()
		h.Write([]byte(l.ID))
		score += int(h.Sum32() % 3)
		if score > 99 {
			score = 99
		}
	}

	return LeadScore{Score: score, Reasoning: reasoningFor(score)}
}

func reasoningFor(score int) string {
	switch {
	case score > 90:
		return "Perfect match! Skills and experience align perfectly with ICP."
	case score > 80:
		return "Good candidate, relevant industry experience but slightly junior."
	default:
		return "Potential match, missing some key keywords but good background."
	}
}

func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

type ScoringService struct {
	Campaigns entity.CampaignRepositoryInterface
	Leads     entity.LeadRepositoryInterface
	Scorer    Scorer
}

func NewScoringService(campaigns entity.CampaignRepositoryInterface, leads entity.LeadRepositoryInterface, scorer Scorer) *ScoringService {
	if scorer == nil {
		scorer = KeywordScorer{}
	}
	return &ScoringService{Campaigns: campaigns, Leads: leads, Scorer: scorer}
}

// ScoreLeads pontua os ids informados ou, sem ids, todo lead ainda sem score.
func (s *ScoringService) ScoreLeads(ctx context.Context, campaignID string, leadIDs []string) ([]*entity.Lead, error) {
	campaign, err := s.Campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, storeError(err, "falha ao buscar campanha")
	}

	leads, err := s.Leads.List(ctx, campaignID)
	if err != nil {
		return nil, storeError(err, "falha ao listar leads")
	}

	wanted := make(map[string]bool, len(leadIDs))
	for _, id := range leadIDs {
		wanted[id] = true
	}

	scored := make([]*entity.Lead, 0)
	for _, l := range leads {
		if len(wanted) > 0 && !wanted[l.ID] {
			continue
		}
		if len(wanted) == 0 && l.AIScore != nil {
			continue
		}

		res := s.Scorer.Score(campaign, l)
		l.AIScore = &res.Score
		l.AIReasoning = &res.Reasoning
		l.Normalize()

		if err := s.Leads.UpdateLead(ctx, l); err != nil {
			log.Printf("❌ [SCORING] Falha ao salvar score do lead %s: %v", l.ID, err)
			return nil, storeError(err, "falha ao salvar score")
		}
		scored = append(scored, l)
	}

	log.Printf("🎯 [SCORING] Campanha %s: %d leads pontuados", campaignID, len(scored))
	return scored, nil
}
