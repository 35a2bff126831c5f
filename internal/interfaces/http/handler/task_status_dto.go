package handler

import (
	"github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
)

// CreateTaskStatusRequest represents the request body for creating a task status
type CreateTaskStatusRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"In progress"`
	Slug string `json:"slug" binding:"required,max=255" example:"in_progress"`
}

// UpdateTaskStatusRequest is a partial update
type UpdateTaskStatusRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
	Slug *string `json:"slug" binding:"omitempty,max=255"`
}

// TaskStatusResponse represents a task status
type TaskStatusResponse struct {
	ID        int64         `json:"id" example:"1"`
	Name      string        `json:"name" example:"Draft"`
	Slug      string        `json:"slug" example:"draft"`
	CreatedAt dto.Timestamp `json:"createdAt" swaggertype:"string" example:"2024-03-05T09:30:15.123Z"`
}

func toTaskStatusResponse(s *tracker.TaskStatusDTO) TaskStatusResponse {
	return TaskStatusResponse{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		CreatedAt: dto.NewTimestamp(s.CreatedAt),
	}
}
