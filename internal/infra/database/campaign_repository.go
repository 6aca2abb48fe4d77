package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/xavierca1/nexus-crm/internal/entity"
)

// Uma única agregação por stage em vez de 4 COUNTs por campanha.
const campaignWithStats = `
	SELECT c.id, c.name, c.status, c.created_at,
		COALESCE(c.target_job_title, ''), COALESCE(c.target_location, ''),
		COUNT(l.id),
		COUNT(l.id) FILTER (WHERE l.stage = 'qualified'),
		COUNT(l.id) FILTER (WHERE l.stage = 'outreach'),
		COUNT(l.id) FILTER (WHERE l.stage = 'replied')
	FROM campaigns c
	LEFT JOIN leads l ON l.campaign_id = c.id
`

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func scanCampaign(row rowScanner) (*entity.Campaign, error) {
	var c entity.Campaign
	var status string
	err := row.Scan(
		&c.ID, &c.Name, &status, &c.CreatedAt,
		&c.TargetJobTitle, &c.TargetLocation,
		&c.Stats.Total, &c.Stats.Qualified, &c.Stats.Contacted, &c.Stats.Replied,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CampaignStatus(status)
	return &c, nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = entity.CampaignActive
	}

	query := `
		INSERT INTO campaigns (id, name, status, target_job_title, target_location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.DB.QueryRowContext(ctx, query, c.ID, c.Name, c.Status, c.TargetJobTitle, c.TargetLocation).Scan(&c.CreatedAt)
	if err != nil {
		return wrap(err, "erro ao criar campanha")
	}
	c.Stats = entity.CampaignStats{}
	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	row := r.DB.QueryRowContext(ctx, campaignWithStats+` WHERE c.id = $1 GROUP BY c.id`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCampaignNotFound
		}
		return nil, wrap(err, "erro ao buscar campanha")
	}
	return c, nil
}

func (r *CampaignRepository) ListWithStats(ctx context.Context) ([]*entity.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, campaignWithStats+` GROUP BY c.id ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, wrap(err, "erro ao listar campanhas")
	}
	defer rows.Close()

	var campaigns []*entity.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, wrap(err, "erro ao escanear campanha")
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, wrap(rows.Err(), "erro ao listar campanhas")
}

// Upsert é usado pelo seed.
func (r *CampaignRepository) Upsert(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, status, created_at, target_job_title, target_location)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			target_job_title = EXCLUDED.target_job_title,
			target_location = EXCLUDED.target_location
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Status, c.CreatedAt, c.TargetJobTitle, c.TargetLocation)
	return wrap(err, "erro no upsert da campanha")
}
