package tracker

import (
	"slices"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
)

// MaxTitleLength bounds the task title
const MaxTitleLength = 255

// Task is a unit of work with a status, an optional assignee and labels.
// StatusSlug mirrors the slug of TaskStatusID and is filled by the
// repository on reads.
type Task struct {
	shared.BaseEntity
	Index        *int64
	Title        string
	Content      *string
	TaskStatusID int64
	StatusSlug   string
	AssigneeID   *int64
	LabelIDs     []int64
}

// NewTask creates a task in the given status
func NewTask(title string, status *TaskStatus) (*Task, error) {
	task := &Task{
		BaseEntity: shared.NewBaseEntity(),
		LabelIDs:   make([]int64, 0),
	}
	if err := task.SetTitle(title); err != nil {
		return nil, err
	}
	if err := task.SetStatus(status); err != nil {
		return nil, err
	}
	return task, nil
}

// SetTitle changes the title
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewValidationError("Title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return shared.NewValidationError("Title cannot exceed 255 characters")
	}
	t.Title = title
	return nil
}

// SetIndex sets or clears (nil) the index
func (t *Task) SetIndex(index *int64) {
	t.Index = index
}

// SetContent sets or clears (nil) the content
func (t *Task) SetContent(content *string) {
	t.Content = content
}

// SetStatus moves the task to a persisted status
func (t *Task) SetStatus(status *TaskStatus) error {
	if status == nil || status.IsNew() {
		return shared.ErrInvalidReference.WithMessage("Task status does not exist")
	}
	t.TaskStatusID = status.ID
	t.StatusSlug = status.Slug
	return nil
}

// AssignTo sets or clears (nil) the assignee
func (t *Task) AssignTo(userID *int64) {
	t.AssigneeID = userID
}

// SetLabels replaces the label set. IDs are deduplicated and kept sorted.
func (t *Task) SetLabels(labelIDs []int64) {
	ids := slices.Clone(labelIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if ids == nil {
		ids = make([]int64, 0)
	}
	t.LabelIDs = ids
}

// HasLabel reports whether the task carries the label
func (t *Task) HasLabel(labelID int64) bool {
	_, found := slices.BinarySearch(t.LabelIDs, labelID)
	return found
}

// IsAssigned reports whether the task has an assignee
func (t *Task) IsAssigned() bool {
	return t.AssigneeID != nil
}
