package handler

import (
	"github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
)

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title      string  `json:"title" binding:"required,max=255" example:"Write the docs"`
	Content    *string `json:"content" example:"Describe every endpoint"`
	Index      *int64  `json:"index" example:"12"`
	AssigneeID *int64  `json:"assignee_id" binding:"omitempty,min=1" example:"1"`
	Status     string  `json:"status" binding:"required" example:"draft"`
	LabelIDs   []int64 `json:"taskLabelIds" binding:"omitempty,dive,min=1"`
}

// UpdateTaskRequest is a partial update. For content, index and assignee_id
// an explicit null clears the value while an absent key keeps it.
type UpdateTaskRequest struct {
	Title      *string                 `json:"title" binding:"omitempty,max=255"`
	Content    shared.Optional[string] `json:"content" swaggertype:"string"`
	Index      shared.Optional[int64]  `json:"index" swaggertype:"integer"`
	AssigneeID shared.Optional[int64]  `json:"assignee_id" swaggertype:"integer"`
	Status     *string                 `json:"status"`
	LabelIDs   *[]int64                `json:"taskLabelIds" binding:"omitempty,dive,min=1"`
}

// TaskQuery holds the list filters
type TaskQuery struct {
	TitleCont  string `form:"titleCont"`
	AssigneeID *int64 `form:"assigneeId" binding:"omitempty,min=1"`
	Status     string `form:"status"`
	LabelID    *int64 `form:"labelId" binding:"omitempty,min=1"`
}

// TaskResponse represents a task. Status is the status slug.
type TaskResponse struct {
	ID         int64         `json:"id" example:"1"`
	Index      *int64        `json:"index" example:"12"`
	CreatedAt  dto.Timestamp `json:"createdAt" swaggertype:"string" example:"2024-03-05T09:30:15.123Z"`
	AssigneeID *int64        `json:"assignee_id" example:"1"`
	Title      string        `json:"title" example:"Write the docs"`
	Content    *string       `json:"content"`
	Status     string        `json:"status" example:"draft"`
	LabelIDs   []int64       `json:"taskLabelIds"`
}

func toTaskResponse(t *tracker.TaskDTO) TaskResponse {
	labelIDs := t.LabelIDs
	if labelIDs == nil {
		labelIDs = []int64{}
	}
	return TaskResponse{
		ID:         t.ID,
		Index:      t.Index,
		CreatedAt:  dto.NewTimestamp(t.CreatedAt),
		AssigneeID: t.AssigneeID,
		Title:      t.Title,
		Content:    t.Content,
		Status:     t.Status,
		LabelIDs:   labelIDs,
	}
}
