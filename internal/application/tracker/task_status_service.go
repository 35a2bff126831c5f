package tracker

import (
	"context"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StatusUsageCounter counts tasks in a status
type StatusUsageCounter interface {
	CountByStatus(ctx context.Context, statusID int64) (int64, error)
}

// TaskStatusService manages task statuses
type TaskStatusService struct {
	statusRepo      tracker.TaskStatusRepository
	usage           StatusUsageCounter
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewTaskStatusService creates a new task status service
func NewTaskStatusService(
	statusRepo tracker.TaskStatusRepository,
	usage StatusUsageCounter,
	logger *zap.Logger,
) *TaskStatusService {
	return &TaskStatusService{
		statusRepo: statusRepo,
		usage:      usage,
		logger:     logger,
	}
}

// SetBusinessMetrics enables created/deleted counters
func (s *TaskStatusService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// List returns all statuses ordered by id
func (s *TaskStatusService) List(ctx context.Context) ([]TaskStatusDTO, error) {
	statuses, err := s.statusRepo.FindAll(ctx)
	if err != nil {
		return nil, repoError(s.logger, "Failed to list task statuses", err)
	}
	return mapSlice(statuses, toTaskStatusDTO), nil
}

// GetByID retrieves a status by ID
func (s *TaskStatusService) GetByID(ctx context.Context, id int64) (*TaskStatusDTO, error) {
	status, err := s.statusRepo.FindByID(ctx, id)
	if err != nil {
		return nil, findError(s.logger, "Task status", id, err)
	}
	return toTaskStatusDTO(status), nil
}

// Create creates a status with a unique name and slug
func (s *TaskStatusService) Create(ctx context.Context, input CreateTaskStatusInput) (*TaskStatusDTO, error) {
	status, err := tracker.NewTaskStatus(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, status.Name); err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, status.Slug); err != nil {
		return nil, err
	}

	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, repoError(s.logger, "Failed to create task status", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityCreated(ctx, telemetry.EntityTaskStatus)
	}
	s.logger.Info("Task status created",
		zap.Int64("status_id", status.ID),
		zap.String("slug", status.Slug))
	return toTaskStatusDTO(status), nil
}

// Update renames a status and/or changes its slug
func (s *TaskStatusService) Update(ctx context.Context, input UpdateTaskStatusInput) (*TaskStatusDTO, error) {
	status, err := s.statusRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, findError(s.logger, "Task status", input.ID, err)
	}

	if input.Name != nil {
		oldName := status.Name
		if err := status.Rename(*input.Name); err != nil {
			return nil, err
		}
		if status.Name != oldName {
			if err := s.ensureNameAvailable(ctx, status.Name); err != nil {
				return nil, err
			}
		}
	}
	if input.Slug != nil {
		oldSlug := status.Slug
		if err := status.SetSlug(*input.Slug); err != nil {
			return nil, err
		}
		if status.Slug != oldSlug {
			if err := s.ensureSlugAvailable(ctx, status.Slug); err != nil {
				return nil, err
			}
		}
	}

	if err := s.statusRepo.Update(ctx, status); err != nil {
		return nil, repoError(s.logger, "Failed to update task status", err)
	}

	s.logger.Info("Task status updated", zap.Int64("status_id", status.ID))
	return toTaskStatusDTO(status), nil
}

// Delete removes a status no task is in
func (s *TaskStatusService) Delete(ctx context.Context, id int64) error {
	if _, err := s.statusRepo.FindByID(ctx, id); err != nil {
		return findError(s.logger, "Task status", id, err)
	}

	inUse, err := s.usage.CountByStatus(ctx, id)
	if err != nil {
		return repoError(s.logger, "Failed to delete task status", err)
	}
	if inUse > 0 {
		return shared.ErrResourceInUse.WithMessage("Task status is used by tasks")
	}

	if err := s.statusRepo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "Failed to delete task status", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityDeleted(ctx, telemetry.EntityTaskStatus)
	}
	s.logger.Info("Task status deleted", zap.Int64("status_id", id))
	return nil
}

func (s *TaskStatusService) ensureNameAvailable(ctx context.Context, name string) error {
	exists, err := s.statusRepo.ExistsByName(ctx, name)
	if err != nil {
		return repoError(s.logger, "Failed to check status name", err)
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Task status name is already taken")
	}
	return nil
}

func (s *TaskStatusService) ensureSlugAvailable(ctx context.Context, slug string) error {
	exists, err := s.statusRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return repoError(s.logger, "Failed to check status slug", err)
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Task status slug is already taken")
	}
	return nil
}
