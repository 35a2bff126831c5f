package persistence

import (
	"context"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLabelRepository implements LabelRepository using GORM
type GormLabelRepository struct {
	db *gorm.DB
}

// NewGormLabelRepository creates a new GormLabelRepository
func NewGormLabelRepository(db *gorm.DB) *GormLabelRepository {
	return &GormLabelRepository{db: db}
}

// Create creates a new label and sets its ID
func (r *GormLabelRepository) Create(ctx context.Context, label *tracker.Label) error {
	model := models.LabelModelFromDomain(label)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return writeError(err)
	}
	label.ID = model.ID
	return nil
}

// Update renames a label
func (r *GormLabelRepository) Update(ctx context.Context, label *tracker.Label) error {
	result := r.db.WithContext(ctx).
		Model(&models.LabelModel{}).
		Where("id = ?", label.ID).
		Update("name", label.Name)
	if result.Error != nil {
		return writeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a label by ID
func (r *GormLabelRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.LabelModel{}, "id = ?", id)
	if result.Error != nil {
		return deleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a label by ID
func (r *GormLabelRepository) FindByID(ctx context.Context, id int64) (*tracker.Label, error) {
	var model models.LabelModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the labels with the given IDs ordered by ID
func (r *GormLabelRepository) FindByIDs(ctx context.Context, ids []int64) ([]*tracker.Label, error) {
	if len(ids) == 0 {
		return []*tracker.Label{}, nil
	}
	var labelModels []*models.LabelModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&labelModels).Error; err != nil {
		return nil, err
	}
	return toDomainLabels(labelModels), nil
}

// FindAll returns all labels ordered by ID
func (r *GormLabelRepository) FindAll(ctx context.Context) ([]*tracker.Label, error) {
	var labelModels []*models.LabelModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&labelModels).Error; err != nil {
		return nil, err
	}
	return toDomainLabels(labelModels), nil
}

// ExistsByName checks if a label name is taken
func (r *GormLabelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LabelModel{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of labels
func (r *GormLabelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LabelModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainLabels(labelModels []*models.LabelModel) []*tracker.Label {
	labels := make([]*tracker.Label, len(labelModels))
	for i, model := range labelModels {
		labels[i] = model.ToDomain()
	}
	return labels
}

var _ tracker.LabelRepository = (*GormLabelRepository)(nil)
