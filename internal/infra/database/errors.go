package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrStoreNotConfigured indica que as tabelas não existem (rode o migrate).
var ErrStoreNotConfigured = errors.New("tabelas do banco não encontradas: rode `crmctl migrate`")

const (
	pqUndefinedTable   = "42P01"
	pqUniqueViolation  = "23505"
	pqForeignKeyFailed = "23503"
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// wrap traduz erros do Postgres para os erros do pacote.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if pgCode(err) == pqUndefinedTable {
		return fmt.Errorf("%s: %w", op, ErrStoreNotConfigured)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	v := ns.String
	return &v
}
