package tracker

import (
	"time"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
)

// CreateTaskStatusInput contains input for creating a task status
type CreateTaskStatusInput struct {
	Name string
	Slug string
}

// UpdateTaskStatusInput contains a partial update. Nil fields are unchanged.
type UpdateTaskStatusInput struct {
	ID   int64
	Name *string
	Slug *string
}

// TaskStatusDTO represents a task status
type TaskStatusDTO struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// CreateLabelInput contains input for creating a label
type CreateLabelInput struct {
	Name string
}

// UpdateLabelInput contains a partial update
type UpdateLabelInput struct {
	ID   int64
	Name *string
}

// LabelDTO represents a label
type LabelDTO struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// CreateTaskInput contains input for creating a task
type CreateTaskInput struct {
	Title      string
	Content    *string
	Index      *int64
	AssigneeID *int64
	StatusSlug string
	LabelIDs   []int64
}

// UpdateTaskInput contains a partial update. Nil pointers and unset
// optionals leave the field unchanged; a null optional clears it.
type UpdateTaskInput struct {
	ID         int64
	Title      *string
	Content    shared.Optional[string]
	Index      shared.Optional[int64]
	AssigneeID shared.Optional[int64]
	StatusSlug *string
	LabelIDs   *[]int64
}

// TaskDTO represents a task. Status is the status slug.
type TaskDTO struct {
	ID         int64
	Index      *int64
	CreatedAt  time.Time
	AssigneeID *int64
	Title      string
	Content    *string
	Status     string
	LabelIDs   []int64
}

func toTaskStatusDTO(status *tracker.TaskStatus) *TaskStatusDTO {
	return &TaskStatusDTO{
		ID:        status.ID,
		Name:      status.Name,
		Slug:      status.Slug,
		CreatedAt: status.CreatedAt,
	}
}

func toLabelDTO(label *tracker.Label) *LabelDTO {
	return &LabelDTO{
		ID:        label.ID,
		Name:      label.Name,
		CreatedAt: label.CreatedAt,
	}
}

func toTaskDTO(task *tracker.Task) *TaskDTO {
	labelIDs := make([]int64, len(task.LabelIDs))
	copy(labelIDs, task.LabelIDs)
	return &TaskDTO{
		ID:         task.ID,
		Index:      task.Index,
		CreatedAt:  task.CreatedAt,
		AssigneeID: task.AssigneeID,
		Title:      task.Title,
		Content:    task.Content,
		Status:     task.StatusSlug,
		LabelIDs:   labelIDs,
	}
}

func mapSlice[E any, D any](items []*E, convert func(*E) *D) []D {
	result := make([]D, 0, len(items))
	for _, item := range items {
		result = append(result, *convert(item))
	}
	return result
}
