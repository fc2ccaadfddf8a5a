//go:build !cgo

package sqlstore

import "attendancedesk/internal/apperrors"

// Without cgo the SQLite driver is a stub, so there is nothing to classify.
func sqliteKind(error) (apperrors.Kind, bool) {
	return "", false
}
