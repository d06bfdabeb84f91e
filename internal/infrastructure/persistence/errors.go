package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// mapNotFound converts gorm's record-not-found into the domain sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// mapUniqueViolation converts a unique-key violation into the domain
// NOT_UNIQUE error so services can surface the offending field. The
// string checks cover Postgres and the SQLite driver used in tests.
func mapUniqueViolation(err error, field, value string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewNotUniqueError(field, value)
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.NewNotUniqueError(field, value)
	}
	return err
}
