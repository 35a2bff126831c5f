package persistence

import (
	"context"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskStatusRepository implements TaskStatusRepository using GORM
type GormTaskStatusRepository struct {
	db *gorm.DB
}

// NewGormTaskStatusRepository creates a new GormTaskStatusRepository
func NewGormTaskStatusRepository(db *gorm.DB) *GormTaskStatusRepository {
	return &GormTaskStatusRepository{db: db}
}

// Create creates a new status and sets its ID
func (r *GormTaskStatusRepository) Create(ctx context.Context, status *tracker.TaskStatus) error {
	model := models.TaskStatusModelFromDomain(status)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return writeError(err)
	}
	status.ID = model.ID
	return nil
}

// Update updates name and slug
func (r *GormTaskStatusRepository) Update(ctx context.Context, status *tracker.TaskStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.TaskStatusModel{}).
		Where("id = ?", status.ID).
		Updates(map[string]any{"name": status.Name, "slug": status.Slug})
	if result.Error != nil {
		return writeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a status by ID
func (r *GormTaskStatusRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskStatusModel{}, "id = ?", id)
	if result.Error != nil {
		return deleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a status by ID
func (r *GormTaskStatusRepository) FindByID(ctx context.Context, id int64) (*tracker.TaskStatus, error) {
	var model models.TaskStatusModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a status by slug
func (r *GormTaskStatusRepository) FindBySlug(ctx context.Context, slug string) (*tracker.TaskStatus, error) {
	var model models.TaskStatusModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.TrimSpace(slug)).
		First(&model).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindAll returns all statuses ordered by ID
func (r *GormTaskStatusRepository) FindAll(ctx context.Context) ([]*tracker.TaskStatus, error) {
	var statusModels []*models.TaskStatusModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&statusModels).Error; err != nil {
		return nil, err
	}

	statuses := make([]*tracker.TaskStatus, len(statusModels))
	for i, model := range statusModels {
		statuses[i] = model.ToDomain()
	}
	return statuses, nil
}

// ExistsByName checks if a status name is taken
func (r *GormTaskStatusRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "name = ?", strings.TrimSpace(name))
}

// ExistsBySlug checks if a status slug is taken
func (r *GormTaskStatusRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, "slug = ?", strings.TrimSpace(slug))
}

func (r *GormTaskStatusRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskStatusModel{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of statuses
func (r *GormTaskStatusRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TaskStatusModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ tracker.TaskStatusRepository = (*GormTaskStatusRepository)(nil)
