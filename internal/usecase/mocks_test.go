package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/integration/lemlist"
	"github.com/xavierca1/nexus-crm/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) AddLead(ctx context.Context, c entity.Candidate, campaignID string) (bool, error) {
	args := m.Called(ctx, c, campaignID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead).Clone(), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, campaignID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateLead(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateLeadStage(ctx context.Context, leadID string, stage entity.LeadStage) error {
	args := m.Called(ctx, leadID, stage)
	return args.Error(0)
}

// MockMessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Message, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockMessageRepository) Summaries(ctx context.Context, leadIDs []string) (map[string]entity.MessageSummary, error) {
	args := m.Called(ctx, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.MessageSummary), args.Error(1)
}

// MockCampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListWithStats(ctx context.Context) ([]*entity.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Campaign), args.Error(1)
}

// MockOutreach
type MockOutreach struct {
	mock.Mock
}

func (m *MockOutreach) SyncLead(ctx context.Context, lead *entity.Lead) lemlist.SyncResult {
	args := m.Called(ctx, lead)
	return args.Get(0).(lemlist.SyncResult)
}

func (m *MockOutreach) SendMessage(ctx context.Context, lemlistID, contactID, text string) bool {
	args := m.Called(ctx, lemlistID, contactID, text)
	return args.Bool(0)
}

// recordingPublisher guarda os eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }
