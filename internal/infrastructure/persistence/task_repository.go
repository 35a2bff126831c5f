package persistence

import (
	"context"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM.
// Label links are stored in task_labels and written in the same transaction
// as the task row.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts the task and its label links, then sets the task ID
func (r *GormTaskRepository) Create(ctx context.Context, task *tracker.Task) error {
	model := models.TaskModelFromDomain(task)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TaskStatus", "Assignee").Create(model).Error; err != nil {
			return err
		}
		return insertTaskLabels(tx, model.ID, task.LabelIDs)
	})
	if err != nil {
		return writeError(err)
	}
	task.ID = model.ID
	return nil
}

// Update writes every task column, nulls included, and replaces the label set
func (r *GormTaskRepository) Update(ctx context.Context, task *tracker.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TaskModel{}).
			Where("id = ?", task.ID).
			Updates(map[string]any{
				"task_index":     task.Index,
				"name":           task.Title,
				"description":    task.Content,
				"task_status_id": task.TaskStatusID,
				"assignee_id":    task.AssigneeID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskLabelModel{}).Error; err != nil {
			return err
		}
		return insertTaskLabels(tx, task.ID, task.LabelIDs)
	})
	return writeError(err)
}

// Delete deletes a task; its label links cascade
func (r *GormTaskRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskLabelModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TaskModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return deleteError(err)
}

// FindByID finds a task with its status slug and label IDs
func (r *GormTaskRepository) FindByID(ctx context.Context, id int64) (*tracker.Task, error) {
	db := r.db.WithContext(ctx)

	var model models.TaskModel
	if err := db.Preload("TaskStatus").First(&model, "tasks.id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}

	labels, err := loadTaskLabels(db, []int64{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(labels[model.ID]), nil
}

// FindAll returns the tasks matching every set criterion of filter, ordered by ID
func (r *GormTaskRepository) FindAll(ctx context.Context, filter tracker.TaskFilter) ([]*tracker.Task, error) {
	db := r.db.WithContext(ctx)
	filter = filter.Normalized()

	query := db.Model(&models.TaskModel{}).Preload("TaskStatus")
	if filter.TitleCont != "" {
		query = query.Where(`LOWER(tasks.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(filter.TitleCont))+"%")
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.StatusSlug != "" {
		query = query.Where("tasks.task_status_id IN (?)",
			db.Model(&models.TaskStatusModel{}).Select("id").Where("slug = ?", filter.StatusSlug))
	}
	if filter.LabelID != nil {
		query = query.Where("tasks.id IN (?)",
			db.Model(&models.TaskLabelModel{}).Select("task_id").Where("label_id = ?", *filter.LabelID))
	}

	var taskModels []*models.TaskModel
	if err := query.Order("tasks.id ASC").Find(&taskModels).Error; err != nil {
		return nil, err
	}
	if len(taskModels) == 0 {
		return []*tracker.Task{}, nil
	}

	ids := make([]int64, len(taskModels))
	for i, m := range taskModels {
		ids[i] = m.ID
	}
	labels, err := loadTaskLabels(db, ids)
	if err != nil {
		return nil, err
	}

	tasks := make([]*tracker.Task, len(taskModels))
	for i, m := range taskModels {
		tasks[i] = m.ToDomain(labels[m.ID])
	}
	return tasks, nil
}

// ExistsByIndex checks if another task than excludeID uses index
func (r *GormTaskRepository) ExistsByIndex(ctx context.Context, index int64, excludeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("task_index = ? AND id <> ?", index, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts tasks in a status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, statusID int64) (int64, error) {
	return r.count(ctx, &models.TaskModel{}, "task_status_id = ?", statusID)
}

// CountByAssignee counts tasks assigned to a user
func (r *GormTaskRepository) CountByAssignee(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, &models.TaskModel{}, "assignee_id = ?", userID)
}

// CountByLabel counts tasks carrying a label
func (r *GormTaskRepository) CountByLabel(ctx context.Context, labelID int64) (int64, error) {
	return r.count(ctx, &models.TaskLabelModel{}, "label_id = ?", labelID)
}

func (r *GormTaskRepository) count(ctx context.Context, model any, query string, arg any) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(query, arg).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func insertTaskLabels(tx *gorm.DB, taskID int64, labelIDs []int64) error {
	if len(labelIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskLabelModel, len(labelIDs))
	for i, labelID := range labelIDs {
		rows[i] = models.TaskLabelModel{TaskID: taskID, LabelID: labelID}
	}
	return tx.Omit("Task", "Label").Create(&rows).Error
}

func loadTaskLabels(db *gorm.DB, taskIDs []int64) (map[int64][]int64, error) {
	var rows []models.TaskLabelModel
	if err := db.Select("task_id", "label_id").
		Where("task_id IN ?", taskIDs).
		Order("label_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byTask := make(map[int64][]int64, len(taskIDs))
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], row.LabelID)
	}
	return byTask, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ tracker.TaskRepository = (*GormTaskRepository)(nil)
