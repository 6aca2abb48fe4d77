package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

// memStore é um store em memória para exercitar os handlers com o pipeline real.
type memStore struct {
	mu         sync.Mutex
	leads      map[string]*entity.Lead
	messages   []*entity.Message
	failCreate error
}

func newMemStore(leads ...*entity.Lead) *memStore {
	s := &memStore{leads: map[string]*entity.Lead{}}
	for _, l := range leads {
		s.leads[l.ID] = l
	}
	return s
}

func (s *memStore) AddLead(_ context.Context, c entity.Candidate, campaignID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.LinkedinURL == c.LinkedinURL {
			return false, nil
		}
	}
	first, last := c.SplitName()
	id := uuid.New().String()
	s.leads[id] = &entity.Lead{ID: id, CampaignID: &campaignID, FirstName: first, LastName: last, LinkedinURL: c.LinkedinURL, Stage: entity.StageProspecting}
	return true, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return l.Clone(), nil
}

func (s *memStore) List(_ context.Context, campaignID string) ([]*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Lead{}
	for _, l := range s.leads {
		if campaignID == "" || (l.CampaignID != nil && *l.CampaignID == campaignID) {
			out = append(out, l.Clone())
		}
	}
	return out, nil
}

func (s *memStore) UpdateLead(_ context.Context, l *entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[l.ID]; !ok {
		return entity.ErrLeadNotFound
	}
	s.leads[l.ID] = l.Clone()
	return nil
}

func (s *memStore) UpdateLeadStage(_ context.Context, id string, stage entity.LeadStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	l.Stage = stage
	return nil
}

func (s *memStore) Create(_ context.Context, m *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	m.ID = uuid.New().String()
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	s.messages = append(s.messages, m)
	return nil
}

func (s *memStore) ListByLead(_ context.Context, leadID string) ([]*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Message
	for _, m := range s.messages {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) Summaries(_ context.Context, leadIDs []string) (map[string]entity.MessageSummary, error) {
	return map[string]entity.MessageSummary{}, nil
}

func (s *memStore) stage(id string) entity.LeadStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[id].Stage
}
