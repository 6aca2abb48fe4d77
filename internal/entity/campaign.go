package entity

import (
	"context"
	"errors"
	"time"
)

var ErrCampaignNotFound = errors.New("campanha não encontrada")

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignStats é calculado na leitura a partir da tabela de leads.
// Contacted conta os leads no stage outreach.
type CampaignStats struct {
	Total     int `json:"total"`
	Qualified int `json:"qualified"`
	Contacted int `json:"contacted"`
	Replied   int `json:"replied"`
}

type Campaign struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         CampaignStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	TargetJobTitle string         `json:"targetJobTitle"`
	TargetLocation string         `json:"targetLocation"`
	Stats          CampaignStats  `json:"stats"`
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
	FindByID(ctx context.Context, id string) (*Campaign, error)
	ListWithStats(ctx context.Context) ([]*Campaign, error)
}
