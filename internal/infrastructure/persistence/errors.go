package persistence

import (
	"errors"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors (translated by gorm) to domain errors.
// fkErr is returned for foreign key violations, whose meaning depends on the
// operation: a write references a missing row, a delete removes a referenced one.
func translateError(err error, fkErr *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated) && fkErr != nil:
		return fkErr
	default:
		return err
	}
}

func writeError(err error) error {
	return translateError(err, shared.ErrInvalidReference)
}

func deleteError(err error) error {
	return translateError(err, shared.ErrResourceInUse)
}
