package usecase

import (
	"errors"

	"github.com/xavierca1/nexus-crm/internal/infra/database"
)

// ErrMessagePersist sinaliza que a mensagem recebida não foi gravada.
var ErrMessagePersist = errors.New("falha ao gravar mensagem")

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeDatabase         = "DATABASE_ERROR"
	CodeOutreachFailed   = "OUTREACH_SEND_FAILED"
	CodeNoContactChannel = "NO_CONTACT_CHANNEL"
	CodeLeadNotFound     = "LEAD_NOT_FOUND"
	CodeCampaignNotFound = "CAMPAIGN_NOT_FOUND"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// IsConfigurationError indica que o schema do banco não foi aplicado.
func IsConfigurationError(err error) bool {
	return errors.Is(err, database.ErrStoreNotConfigured)
}
