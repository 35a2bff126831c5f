package tracker

import (
	"context"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LabelUsageCounter counts tasks carrying a label
type LabelUsageCounter interface {
	CountByLabel(ctx context.Context, labelID int64) (int64, error)
}

// LabelService manages labels
type LabelService struct {
	labelRepo       tracker.LabelRepository
	usage           LabelUsageCounter
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewLabelService creates a new label service
func NewLabelService(labelRepo tracker.LabelRepository, usage LabelUsageCounter, logger *zap.Logger) *LabelService {
	return &LabelService{
		labelRepo: labelRepo,
		usage:     usage,
		logger:    logger,
	}
}

// SetBusinessMetrics enables created/deleted counters
func (s *LabelService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// List returns all labels ordered by id
func (s *LabelService) List(ctx context.Context) ([]LabelDTO, error) {
	labels, err := s.labelRepo.FindAll(ctx)
	if err != nil {
		return nil, repoError(s.logger, "Failed to list labels", err)
	}
	return mapSlice(labels, toLabelDTO), nil
}

// GetByID retrieves a label by ID
func (s *LabelService) GetByID(ctx context.Context, id int64) (*LabelDTO, error) {
	label, err := s.labelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, findError(s.logger, "Label", id, err)
	}
	return toLabelDTO(label), nil
}

// Create creates a label with a unique name
func (s *LabelService) Create(ctx context.Context, input CreateLabelInput) (*LabelDTO, error) {
	label, err := tracker.NewLabel(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, label.Name); err != nil {
		return nil, err
	}

	if err := s.labelRepo.Create(ctx, label); err != nil {
		return nil, repoError(s.logger, "Failed to create label", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityCreated(ctx, telemetry.EntityLabel)
	}
	s.logger.Info("Label created", zap.Int64("label_id", label.ID), zap.String("name", label.Name))
	return toLabelDTO(label), nil
}

// Update renames a label
func (s *LabelService) Update(ctx context.Context, input UpdateLabelInput) (*LabelDTO, error) {
	label, err := s.labelRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, findError(s.logger, "Label", input.ID, err)
	}

	if input.Name != nil {
		oldName := label.Name
		if err := label.Rename(*input.Name); err != nil {
			return nil, err
		}
		if label.Name != oldName {
			if err := s.ensureNameAvailable(ctx, label.Name); err != nil {
				return nil, err
			}
		}
	}

	if err := s.labelRepo.Update(ctx, label); err != nil {
		return nil, repoError(s.logger, "Failed to update label", err)
	}

	s.logger.Info("Label updated", zap.Int64("label_id", label.ID))
	return toLabelDTO(label), nil
}

// Delete removes a label no task carries
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	if _, err := s.labelRepo.FindByID(ctx, id); err != nil {
		return findError(s.logger, "Label", id, err)
	}

	inUse, err := s.usage.CountByLabel(ctx, id)
	if err != nil {
		return repoError(s.logger, "Failed to delete label", err)
	}
	if inUse > 0 {
		return shared.ErrResourceInUse.WithMessage("Label is used by tasks")
	}

	if err := s.labelRepo.Delete(ctx, id); err != nil {
		return repoError(s.logger, "Failed to delete label", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityDeleted(ctx, telemetry.EntityLabel)
	}
	s.logger.Info("Label deleted", zap.Int64("label_id", id))
	return nil
}

func (s *LabelService) ensureNameAvailable(ctx context.Context, name string) error {
	exists, err := s.labelRepo.ExistsByName(ctx, name)
	if err != nil {
		return repoError(s.logger, "Failed to check label name", err)
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Label name is already taken")
	}
	return nil
}
