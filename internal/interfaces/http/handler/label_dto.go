package handler

import (
	"github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
)

// CreateLabelRequest represents the request body for creating a label
type CreateLabelRequest struct {
	Name string `json:"name" binding:"required,min=3,max=1000" example:"feature"`
}

// UpdateLabelRequest is a partial update
type UpdateLabelRequest struct {
	Name *string `json:"name" binding:"omitempty,min=3,max=1000"`
}

// LabelResponse represents a label
type LabelResponse struct {
	ID        int64         `json:"id" example:"1"`
	Name      string        `json:"name" example:"bug"`
	CreatedAt dto.Timestamp `json:"createdAt" swaggertype:"string" example:"2024-03-05T09:30:15.123Z"`
}

func toLabelResponse(l *tracker.LabelDTO) LabelResponse {
	return LabelResponse{
		ID:        l.ID,
		Name:      l.Name,
		CreatedAt: dto.NewTimestamp(l.CreatedAt),
	}
}
