package tracker

import (
	"errors"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"go.uber.org/zap"
)

// repoError passes domain errors from the repository through and logs and
// hides anything else behind an internal error.
func repoError(logger *zap.Logger, message string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	logger.Error(message, zap.Error(err))
	return shared.NewInternalError(message)
}

// findError maps a lookup failure to a not-found error naming the resource
func findError(logger *zap.Logger, resource string, id int64, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotFound.WithMessage(resource + " not found")
	}
	logger.Error("Failed to find "+resource, zap.Int64("id", id), zap.Error(err))
	return shared.NewInternalError("Failed to find " + resource)
}
