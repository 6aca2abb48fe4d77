package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/nexus-crm/internal/entity"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if m.Channel == "" {
		m.Channel = entity.ChannelLinkedIn
	}

	query := `
		INSERT INTO messages (id, lead_id, sender, content, channel, timestamp, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, m.ID, m.LeadID, m.Sender, m.Content, m.Channel, m.Timestamp, m.Read)
	return wrap(err, "erro ao salvar mensagem")
}

func scanMessage(row rowScanner, extra ...any) (*entity.Message, error) {
	var m entity.Message
	var sender, channel string
	dest := append([]any{&m.ID, &m.LeadID, &sender, &m.Content, &channel, &m.Timestamp, &m.Read}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.Sender = entity.Sender(sender)
	m.Channel = entity.Channel(channel)
	return &m, nil
}

func (r *MessageRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Message, error) {
	query := `
		SELECT id, lead_id, sender, content, channel, timestamp, read
		FROM messages WHERE lead_id = $1 ORDER BY timestamp ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, wrap(err, "erro ao buscar mensagens")
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, wrap(err, "erro ao escanear mensagem")
		}
		messages = append(messages, m)
	}
	return messages, wrap(rows.Err(), "erro ao buscar mensagens")
}

// Summaries devolve, por lead, a última mensagem e quantas mensagens do lead estão não lidas.
func (r *MessageRepository) Summaries(ctx context.Context, leadIDs []string) (map[string]entity.MessageSummary, error) {
	out := make(map[string]entity.MessageSummary, len(leadIDs))
	if len(leadIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT ON (m.lead_id)
			m.id, m.lead_id, m.sender, m.content, m.channel, m.timestamp, m.read,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.lead_id = m.lead_id AND u.sender = 'lead' AND NOT u.read)
		FROM messages m
		WHERE m.lead_id = ANY($1)
		ORDER BY m.lead_id, m.timestamp DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(leadIDs))
	if err != nil {
		return nil, wrap(err, "erro ao resumir mensagens")
	}
	defer rows.Close()

	for rows.Next() {
		var unread int
		m, err := scanMessage(rows, &unread)
		if err != nil {
			return nil, wrap(err, "erro ao escanear resumo")
		}
		out[m.LeadID] = entity.MessageSummary{LeadID: m.LeadID, LastMessage: *m, UnreadCount: unread}
	}
	return out, wrap(rows.Err(), "erro ao resumir mensagens")
}
