package tracker

import (
	"context"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
)

// TaskStatusRepository defines persistence for task statuses
type TaskStatusRepository interface {
	shared.Repository[TaskStatus]

	// FindBySlug finds a status by its slug
	FindBySlug(ctx context.Context, slug string) (*TaskStatus, error)

	// ExistsByName checks if a status name is taken
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySlug checks if a status slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// LabelRepository defines persistence for labels
type LabelRepository interface {
	shared.Repository[Label]

	// FindByIDs returns the labels with the given IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []int64) ([]*Label, error)

	// ExistsByName checks if a label name is taken
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// TaskRepository defines persistence for tasks.
// Update replaces the stored label set with task.LabelIDs.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// ExistsByIndex checks if an index is used by another task than excludeID
	ExistsByIndex(ctx context.Context, index int64, excludeID int64) (bool, error)

	CountByStatus(ctx context.Context, statusID int64) (int64, error)
	CountByAssignee(ctx context.Context, userID int64) (int64, error)
	CountByLabel(ctx context.Context, labelID int64) (int64, error)
}

// TaskFilter narrows task listings. Zero-valued fields do not filter.
type TaskFilter struct {
	// TitleCont matches a case-insensitive substring of the title
	TitleCont string

	AssigneeID *int64

	// StatusSlug matches the slug of the task status
	StatusSlug string

	LabelID *int64
}

// Normalized trims whitespace from text criteria
func (f TaskFilter) Normalized() TaskFilter {
	f.TitleCont = strings.TrimSpace(f.TitleCont)
	f.StatusSlug = strings.TrimSpace(f.StatusSlug)
	return f
}

// IsEmpty reports whether the filter matches every task
func (f TaskFilter) IsEmpty() bool {
	f = f.Normalized()
	return f.TitleCont == "" && f.AssigneeID == nil && f.StatusSlug == "" && f.LabelID == nil
}

// Matches evaluates the filter against a task in memory
func (f TaskFilter) Matches(t *Task) bool {
	f = f.Normalized()
	if f.TitleCont != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.TitleCont)) {
		return false
	}
	if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
		return false
	}
	if f.StatusSlug != "" && t.StatusSlug != f.StatusSlug {
		return false
	}
	if f.LabelID != nil && !t.HasLabel(*f.LabelID) {
		return false
	}
	return true
}
