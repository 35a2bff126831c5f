package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// UserFinder looks up assignees
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*identity.User, error)
}

// TaskService manages tasks and resolves their references
type TaskService struct {
	taskRepo        tracker.TaskRepository
	statusRepo      tracker.TaskStatusRepository
	labelRepo       tracker.LabelRepository
	users           UserFinder
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo tracker.TaskRepository,
	statusRepo tracker.TaskStatusRepository,
	labelRepo tracker.LabelRepository,
	users UserFinder,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		statusRepo: statusRepo,
		labelRepo:  labelRepo,
		users:      users,
		logger:     logger,
	}
}

// SetBusinessMetrics enables created/deleted counters
func (s *TaskService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// List returns the tasks matching filter ordered by id
func (s *TaskService) List(ctx context.Context, filter tracker.TaskFilter) ([]TaskDTO, error) {
	tasks, err := s.taskRepo.FindAll(ctx, filter.Normalized())
	if err != nil {
		return nil, repoError(s.logger, "Failed to list tasks", err)
	}
	return mapSlice(tasks, toTaskDTO), nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, id int64) (*TaskDTO, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, findError(s.logger, "Task", id, err)
	}
	return toTaskDTO(task), nil
}

// Create creates a task after resolving its status, assignee and labels
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*TaskDTO, error) {
	status, err := s.resolveStatus(ctx, input.StatusSlug)
	if err != nil {
		return nil, err
	}

	task, err := tracker.NewTask(input.Title, status)
	if err != nil {
		return nil, err
	}
	task.SetContent(input.Content)

	if input.Index != nil {
		if err := s.ensureIndexAvailable(ctx, *input.Index, 0); err != nil {
			return nil, err
		}
		task.SetIndex(input.Index)
	}
	if input.AssigneeID != nil {
		if err := s.ensureAssigneeExists(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssignTo(input.AssigneeID)
	}
	task.SetLabels(input.LabelIDs)
	if err := s.ensureLabelsExist(ctx, task.LabelIDs); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, repoError(s.logger, "Failed to create task", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityCreated(ctx, telemetry.EntityTask)
	}
	s.logger.Info("Task created",
		zap.Int64("task_id", task.ID),
		zap.String("status", task.StatusSlug))
	return toTaskDTO(task), nil
}

// Update applies a partial update. Present references are resolved again.
func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*TaskDTO, error) {
	task, err := s.taskRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, findError(s.logger, "Task", input.ID, err)
	}

	if input.Title != nil {
		if err := task.SetTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Content.Set {
		task.SetContent(input.Content.Value)
	}
	if input.Index.Set {
		if input.Index.Value != nil {
			if err := s.ensureIndexAvailable(ctx, *input.Index.Value, task.ID); err != nil {
				return nil, err
			}
		}
		task.SetIndex(input.Index.Value)
	}
	if input.AssigneeID.Set {
		if input.AssigneeID.Value != nil {
			if err := s.ensureAssigneeExists(ctx, *input.AssigneeID.Value); err != nil {
				return nil, err
			}
		}
		task.AssignTo(input.AssigneeID.Value)
	}
	if input.StatusSlug != nil {
		status, err := s.resolveStatus(ctx, *input.StatusSlug)
		if err != nil {
			return nil, err
		}
		if err := task.SetStatus(status); err != nil {
			return nil, err
		}
	}
	if input.LabelIDs != nil {
		task.SetLabels(*input.LabelIDs)
		if err := s.ensureLabelsExist(ctx, task.LabelIDs); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, repoError(s.logger, "Failed to update task", err)
	}

	s.logger.Info("Task updated", zap.Int64("task_id", task.ID))
	return toTaskDTO(task), nil
}

// Delete removes a task and its label links
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound.WithMessage("Task not found")
		}
		return repoError(s.logger, "Failed to delete task", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityDeleted(ctx, telemetry.EntityTask)
	}
	s.logger.Info("Task deleted", zap.Int64("task_id", id))
	return nil
}

func (s *TaskService) resolveStatus(ctx context.Context, slug string) (*tracker.TaskStatus, error) {
	if slug == "" {
		return nil, shared.NewValidationError("Status is required")
	}
	status, err := s.statusRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidReference.WithMessage(fmt.Sprintf("Task status %q does not exist", slug))
		}
		return nil, repoError(s.logger, "Failed to resolve task status", err)
	}
	return status, nil
}

func (s *TaskService) ensureAssigneeExists(ctx context.Context, userID int64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvalidReference.WithMessage(fmt.Sprintf("User %d does not exist", userID))
		}
		return repoError(s.logger, "Failed to resolve assignee", err)
	}
	return nil
}

// ensureLabelsExist expects ids to be deduplicated
func (s *TaskService) ensureLabelsExist(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	labels, err := s.labelRepo.FindByIDs(ctx, ids)
	if err != nil {
		return repoError(s.logger, "Failed to resolve labels", err)
	}
	if len(labels) == len(ids) {
		return nil
	}

	found := make(map[int64]struct{}, len(labels))
	for _, label := range labels {
		found[label.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return shared.ErrInvalidReference.WithMessage(fmt.Sprintf("Label %d does not exist", id))
		}
	}
	return nil
}

func (s *TaskService) ensureIndexAvailable(ctx context.Context, index, excludeID int64) error {
	exists, err := s.taskRepo.ExistsByIndex(ctx, index, excludeID)
	if err != nil {
		return repoError(s.logger, "Failed to check task index", err)
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage(fmt.Sprintf("Task index %d is already taken", index))
	}
	return nil
}
