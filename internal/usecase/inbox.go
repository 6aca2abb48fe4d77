package usecase

import (
	"context"
	"sort"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

const (
	fallbackSyncedText = "Contacted via Lemlist"
	fallbackDirectText = "Contacted via Direct"
)

type InboxService struct {
	LeadRepo    entity.LeadRepositoryInterface
	MessageRepo entity.MessageRepositoryInterface
}

func NewInboxService(leads entity.LeadRepositoryInterface, messages entity.MessageRepositoryInterface) *InboxService {
	return &InboxService{LeadRepo: leads, MessageRepo: messages}
}

// Conversations monta o inbox: leads em outreach/replied com a última mensagem.
func (s *InboxService) Conversations(ctx context.Context, campaignID string) ([]entity.Conversation, error) {
	leads, err := s.LeadRepo.List(ctx, campaignID)
	if err != nil {
		return nil, storeError(err, "falha ao listar leads")
	}

	var active []*entity.Lead
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		if l.Stage == entity.StageOutreach || l.Stage == entity.StageReplied {
			active = append(active, l)
			ids = append(ids, l.ID)
		}
	}

	conversations := make([]entity.Conversation, 0, len(active))
	if len(active) == 0 {
		return conversations, nil
	}

	summaries, err := s.MessageRepo.Summaries(ctx, ids)
	if err != nil {
		return nil, storeError(err, "falha ao carregar mensagens")
	}

	for _, l := range active {
		conv := entity.Conversation{
			LeadID:     l.ID,
			LeadName:   l.FullName(),
			LeadAvatar: l.AvatarURL,
			Channel:    entity.ChannelLinkedIn,
		}
		if l.CampaignID != nil {
			conv.CampaignID = *l.CampaignID
		}

		if sum, ok := summaries[l.ID]; ok {
			conv.LastMessage = sum.LastMessage.Content
			conv.Timestamp = sum.LastMessage.Timestamp
			conv.Channel = sum.LastMessage.Channel
			conv.UnreadCount = sum.UnreadCount
		} else {
			conv.LastMessage = fallbackDirectText
			if l.LemlistSynced {
				conv.LastMessage = fallbackSyncedText
			}
			conv.Timestamp = l.ScrapedAt
		}
		conversations = append(conversations, conv)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Timestamp.After(conversations[j].Timestamp)
	})
	return conversations, nil
}

func (s *InboxService) Messages(ctx context.Context, leadID string) ([]*entity.Message, error) {
	if _, err := s.LeadRepo.FindByID(ctx, leadID); err != nil {
		return nil, storeError(err, "falha ao buscar lead")
	}
	msgs, err := s.MessageRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, storeError(err, "falha ao listar mensagens")
	}
	if msgs == nil {
		msgs = []*entity.Message{}
	}
	return msgs, nil
}
