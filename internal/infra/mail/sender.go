package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/nexus-crm/internal/config"
	"github.com/xavierca1/nexus-crm/internal/infra/queue"
)

//go:embed templates/reply.html
var templates embed.FS

var replyTemplate = template.Must(template.ParseFS(templates, "templates/reply.html"))

// NewReplyNotifier devolve nil quando o SMTP não está configurado.
func NewReplyNotifier(cfg config.MailConfig) *ReplyNotifier {
	if !cfg.Enabled() {
		log.Println("⚠️ MAIL_HOST/NOTIFY_EMAIL não configurados: notificação de respostas desativada")
		return nil
	}
	return &ReplyNotifier{
		From:   cfg.From,
		To:     cfg.NotifyTo,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func Render(data ReplyEmailData) (string, error) {
	var body bytes.Buffer
	if err := replyTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func (n *ReplyNotifier) build(e queue.Event) (*gomail.Message, error) {
	name := e.LeadName
	if name == "" {
		name = "Lead " + e.LeadID
	}

	body, err := Render(ReplyEmailData{
		LeadID:     e.LeadID,
		LeadName:   name,
		Stage:      e.Stage,
		Content:    e.Content,
		ReceivedAt: e.OccurredAt.Format(time.RFC1123),
	})
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", fmt.Sprintf("💬 %s respondeu no LinkedIn", name))
	m.SetBody("text/html", body)
	return m, nil
}

// HandleInbound é registrado no dispatcher para message.inbound.
func (n *ReplyNotifier) HandleInbound(_ context.Context, e queue.Event) error {
	m, err := n.build(e)
	if err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	log.Printf("📧 [MAIL] Aviso de resposta do lead %s enviado para %s", e.LeadID, n.To)
	return nil
}
