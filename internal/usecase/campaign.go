package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/nexus-crm/internal/entity"
)

type CreateCampaignInput struct {
	Name           string `json:"name"`
	TargetJobTitle string `json:"targetJobTitle"`
	TargetLocation string `json:"targetLocation"`
}

type CampaignService struct {
	Repo entity.CampaignRepositoryInterface
}

func NewCampaignService(repo entity.CampaignRepositoryInterface) *CampaignService {
	return &CampaignService{Repo: repo}
}

func (s *CampaignService) Create(ctx context.Context, input CreateCampaignInput) (*entity.Campaign, error) {
	if errs := ValidateCreateCampaignInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	c := &entity.Campaign{
		Name:           strings.TrimSpace(input.Name),
		Status:         entity.CampaignActive,
		TargetJobTitle: strings.TrimSpace(input.TargetJobTitle),
		TargetLocation: strings.TrimSpace(input.TargetLocation),
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, storeError(err, "falha ao criar campanha")
	}
	return c, nil
}

func (s *CampaignService) List(ctx context.Context) ([]*entity.Campaign, error) {
	campaigns, err := s.Repo.ListWithStats(ctx)
	if err != nil {
		return nil, storeError(err, "falha ao listar campanhas")
	}
	if campaigns == nil {
		campaigns = []*entity.Campaign{}
	}
	return campaigns, nil
}

func (s *CampaignService) Get(ctx context.Context, id string) (*entity.Campaign, error) {
	c, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "falha ao buscar campanha")
	}
	return c, nil
}
