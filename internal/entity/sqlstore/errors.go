package sqlstore

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"attendancedesk/internal/apperrors"
)

// Postgres SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// translate maps driver errors onto apperrors kinds.
func translate(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := pgKind(err); ok {
		return classify(kind, op, entity, err)
	}
	if kind, ok := sqliteKind(err); ok {
		return classify(kind, op, entity, err)
	}
	return apperrors.Wrap(apperrors.KindInternal, op, err)
}

func classify(kind apperrors.Kind, op, entity string, err error) error {
	switch kind {
	case apperrors.KindConflict:
		return apperrors.Conflict(op, entity, err)
	case apperrors.KindDependency:
		return apperrors.Dependency(op, entity+" references a missing or still-referenced row", err)
	}
	return apperrors.Wrap(kind, op, err)
}

func pgKind(err error) (apperrors.Kind, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.KindConflict, true
	case pgForeignKeyViolation:
		return apperrors.KindDependency, true
	case pgCheckViolation, pgStringTooLong:
		return apperrors.KindValidation, true
	}
	return "", false
}
