package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

func TestKeywordScorerRange(t *testing.T) {
	c := &entity.Campaign{TargetJobTitle: "Head of Growth", TargetLocation: "Paris"}

	perfect := KeywordScorer{}.Score(c, &entity.Lead{ID: "1", Title: "Head of Growth", Location: "Paris, France"})
	none := KeywordScorer{}.Score(c, &entity.Lead{ID: "2", Title: "Chef", Location: "Lyon"})

	assert.Equal(t, 99, perfect.Score)
	assert.Contains(t, perfect.Reasoning, "Perfect match")
	assert.GreaterOrEqual(t, none.Score, 60)
	assert.Less(t, none.Score, 63)
	assert.Contains(t, none.Reasoning, "Potential match")
}

func TestKeywordScorerIsDeterministic(t *testing.T) {
	c := &entity.Campaign{TargetJobTitle: "CTO", TargetLocation: "Berlin"}
	l := &entity.Lead{ID: "abc", Title: "CTO", Location: "Munich"}

	assert.Equal(t, KeywordScorer{}.Score(c, l), KeywordScorer{}.Score(c, l))
}

func TestReasoningTiers(t *testing.T) {
	assert.Contains(t, reasoningFor(91), "Perfect")
	assert.Contains(t, reasoningFor(90), "Good candidate")
	assert.Contains(t, reasoningFor(81), "Good candidate")
	assert.Contains(t, reasoningFor(80), "Potential")
}

func TestScoreLeadsOnlyUnscoredByDefault(t *testing.T) {
	campaigns := new(MockCampaignRepository)
	leads := new(MockLeadRepository)
	campaigns.On("FindByID", mock.Anything, "c1").Return(&entity.Campaign{ID: "c1", TargetJobTitle: "CTO"}, nil)

	score := 70
	scored := newLead("1", entity.StageProspecting)
	scored.AIScore = &score
	leads.On("List", mock.Anything, "c1").Return([]*entity.Lead{scored, newLead("2", entity.StageProspecting)}, nil)
	leads.On("UpdateLead", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.ID == "2" && l.AIScore != nil && l.AIReasoning != nil
	})).Return(nil).Once()

	out, err := NewScoringService(campaigns, leads, nil).ScoreLeads(context.Background(), "c1", nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
	leads.AssertExpectations(t)
}

func TestScoreLeadsExplicitIDsRescore(t *testing.T) {
	campaigns := new(MockCampaignRepository)
	leads := new(MockLeadRepository)
	campaigns.On("FindByID", mock.Anything, "c1").Return(&entity.Campaign{ID: "c1", TargetJobTitle: "CTO"}, nil)

	score := 70
	scored := newLead("1", entity.StageProspecting)
	scored.AIScore = &score
	leads.On("List", mock.Anything, "c1").Return([]*entity.Lead{scored, newLead("2", entity.StageProspecting)}, nil)
	leads.On("UpdateLead", mock.Anything, mock.Anything).Return(nil)

	out, err := NewScoringService(campaigns, leads, nil).ScoreLeads(context.Background(), "c1", []string{"1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
	assert.GreaterOrEqual(t, *out[0].AIScore, 60)
}
