package usecase

import (
	"context"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/integration/lemlist"
	"github.com/xavierca1/nexus-crm/internal/infra/queue"
)

// OutreachClient é o lado da Lemlist visto pelo pipeline.
type OutreachClient interface {
	SyncLead(ctx context.Context, lead *entity.Lead) lemlist.SyncResult
	SendMessage(ctx context.Context, lemlistID, contactID, text string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, e queue.Event) error
}

type Scorer interface {
	Score(campaign *entity.Campaign, lead *entity.Lead) LeadScore
}

type CandidateImporter interface {
	AddLead(ctx context.Context, candidate entity.Candidate, campaignID string) (created bool, err error)
}
