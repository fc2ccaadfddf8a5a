//go:build cgo

package sqlstore

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"attendancedesk/internal/apperrors"
)

func sqliteKind(err error) (apperrors.Kind, bool) {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return "", false
	}
	switch liteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return apperrors.KindConflict, true
	case sqlite3.ErrConstraintForeignKey:
		return apperrors.KindDependency, true
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return apperrors.KindValidation, true
	}
	return "", false
}
