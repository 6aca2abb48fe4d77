package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationFailed junta os erros de campo num único DomainError.
func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{Code: CodeValidation, Message: strings.Join(parts, "; ")}
}

func ValidateCreateCampaignInput(input CreateCampaignInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.TargetJobTitle) == "" {
		errors = append(errors, ValidationError{"targetJobTitle", "is required"})
	}

	return errors
}

func ValidateOutboundMessage(text string) []ValidationError {
	if strings.TrimSpace(text) == "" {
		return []ValidationError{{"text", "is required"}}
	}
	return nil
}
