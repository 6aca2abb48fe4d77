package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/nexus-crm/internal/entity"
)

const leadColumns = `id, campaign_id, COALESCE(first_name, ''), COALESCE(last_name, ''),
	COALESCE(headline, ''), COALESCE(company, ''), COALESCE(title, ''), COALESCE(location, ''),
	COALESCE(linkedin_url, ''), email, email_status, stage, COALESCE(status, ''), scraped_at,
	COALESCE(avatar_url, ''), COALESCE(summary, ''), ai_score, ai_reasoning,
	lemlist_synced, lemlist_id, lemlist_contact_id`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l                              entity.Lead
		campaignID, email, aiReasoning sql.NullString
		lemlistID, lemlistContactID    sql.NullString
		aiScore                        sql.NullInt64
		emailStatus, stage             string
	)

	err := row.Scan(
		&l.ID, &campaignID, &l.FirstName, &l.LastName,
		&l.Headline, &l.Company, &l.Title, &l.Location,
		&l.LinkedinURL, &email, &emailStatus, &stage, &l.Status, &l.ScrapedAt,
		&l.AvatarURL, &l.Summary, &aiScore, &aiReasoning,
		&l.LemlistSynced, &lemlistID, &lemlistContactID,
	)
	if err != nil {
		return nil, err
	}

	l.CampaignID = fromNull(campaignID)
	l.Email = fromNull(email)
	l.EmailStatus = entity.EmailStatus(emailStatus)
	l.Stage = entity.LeadStage(stage)
	l.AIReasoning = fromNull(aiReasoning)
	l.LemlistID = fromNull(lemlistID)
	l.LemlistContactID = fromNull(lemlistContactID)
	if aiScore.Valid {
		score := int(aiScore.Int64)
		l.AIScore = &score
	}
	return &l, nil
}

// AddLead salva um candidato na campanha. O linkedin_url é a chave natural
// (índice único no schema): se já existe devolve created=false sem erro.
func (r *LeadRepository) AddLead(ctx context.Context, c entity.Candidate, campaignID string) (created bool, err error) {
	if c.LinkedinURL != "" {
		var existingID string
		err = r.DB.QueryRowContext(ctx, `SELECT id FROM leads WHERE linkedin_url = $1 LIMIT 1`, c.LinkedinURL).Scan(&existingID)
		switch {
		case err == nil:
			log.Printf("ℹ️ Lead já existe: %s (%s)", c.FullName, existingID)
			return false, nil
		case !errors.Is(err, sql.ErrNoRows):
			return false, wrap(err, "erro ao buscar lead por linkedin_url")
		}
	}

	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}
	first, last := c.SplitName()

	query := `
		INSERT INTO leads (
			id, campaign_id, first_name, last_name, headline, company, title, location,
			linkedin_url, email_status, stage, status, scraped_at, avatar_url, summary,
			lemlist_synced, lemlist_id, lemlist_contact_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, FALSE, NULL, NULL)
	`
	_, err = r.DB.ExecContext(ctx, query,
		id, campaignID, first, last, c.Headline, c.Company, c.CurrentRole, c.Location,
		nullString(&c.LinkedinURL), entity.EmailMissing, entity.StageProspecting, entity.StatusScraped,
		time.Now().UTC(), c.AvatarURL, c.Summary,
	)
	if err != nil {
		switch pgCode(err) {
		case pqUniqueViolation:
			// outro insert com o mesmo id ou linkedin_url ganhou a corrida
			log.Printf("ℹ️ Lead %s inserido em paralelo, tratando como duplicata", id)
			return false, nil
		case pqForeignKeyFailed:
			return false, entity.ErrCampaignNotFound
		}
		return false, wrap(err, "erro ao inserir lead")
	}
	return true, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, wrap(err, "erro ao buscar lead")
	}
	return lead, nil
}

// List devolve os leads (de uma campanha, se campaignID != "") do mais novo ao mais antigo.
func (r *LeadRepository) List(ctx context.Context, campaignID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if campaignID != "" {
		query += ` WHERE campaign_id = $1`
		args = append(args, campaignID)
	}
	query += ` ORDER BY scraped_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(err, "erro ao listar leads")
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, wrap(err, "erro ao escanear lead")
		}
		leads = append(leads, lead)
	}
	return leads, wrap(rows.Err(), "erro ao listar leads")
}

// UpdateLead regrava a linha inteira. Sem controle de concorrência: o último vence.
func (r *LeadRepository) UpdateLead(ctx context.Context, l *entity.Lead) error {
	l.Normalize()

	query := `
		UPDATE leads SET
			first_name = $2, last_name = $3, headline = $4, company = $5, title = $6,
			location = $7, email = $8, email_status = $9, stage = $10, status = $11,
			ai_score = $12, ai_reasoning = $13, lemlist_synced = $14, lemlist_id = $15,
			lemlist_contact_id = $16
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		l.ID, l.FirstName, l.LastName, l.Headline, l.Company, l.Title,
		l.Location, nullString(l.Email), l.EmailStatus, l.Stage, l.Status,
		nullInt(l.AIScore), nullString(l.AIReasoning), l.LemlistSynced, nullString(l.LemlistID),
		nullString(l.LemlistContactID),
	)
	if err != nil {
		return wrap(err, "erro ao atualizar lead")
	}
	return requireAffected(res, entity.ErrLeadNotFound)
}

func (r *LeadRepository) UpdateLeadStage(ctx context.Context, leadID string, stage entity.LeadStage) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET stage = $1 WHERE id = $2`, stage, leadID)
	if err != nil {
		return wrap(err, "erro ao atualizar stage")
	}
	return requireAffected(res, entity.ErrLeadNotFound)
}

// Upsert é usado pelo seed.
func (r *LeadRepository) Upsert(ctx context.Context, l *entity.Lead) error {
	l.Normalize()
	if l.ScrapedAt.IsZero() {
		l.ScrapedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO leads (
			id, campaign_id, first_name, last_name, headline, company, title, location,
			linkedin_url, email, email_status, stage, status, scraped_at, avatar_url, summary,
			ai_score, ai_reasoning, lemlist_synced, lemlist_id, lemlist_contact_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			campaign_id = EXCLUDED.campaign_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			headline = EXCLUDED.headline,
			company = EXCLUDED.company,
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			linkedin_url = EXCLUDED.linkedin_url,
			email = EXCLUDED.email,
			email_status = EXCLUDED.email_status,
			stage = EXCLUDED.stage,
			status = EXCLUDED.status,
			scraped_at = EXCLUDED.scraped_at,
			avatar_url = EXCLUDED.avatar_url,
			summary = EXCLUDED.summary
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID, nullString(l.CampaignID), l.FirstName, l.LastName, l.Headline, l.Company, l.Title, l.Location,
		nullString(&l.LinkedinURL), nullString(l.Email), l.EmailStatus, l.Stage, l.Status, l.ScrapedAt, l.AvatarURL, l.Summary,
		nullInt(l.AIScore), nullString(l.AIReasoning), l.LemlistSynced, nullString(l.LemlistID), nullString(l.LemlistContactID),
	)
	return wrap(err, "erro no upsert do lead")
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
