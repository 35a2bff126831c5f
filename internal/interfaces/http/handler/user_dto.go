package handler

import (
	"github.com/hexlet/taskmanager/internal/application/identity"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
)

// CreateUserRequest represents the registration payload
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=255" example:"jack@example.com"`
	Password  string `json:"password" binding:"required,min=3,max=72" example:"secret"`
	FirstName string `json:"firstName" binding:"max=255" example:"Jack"`
	LastName  string `json:"lastName" binding:"max=255" example:"Jones"`
}

// UpdateUserRequest is a partial update; absent keys are left unchanged
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	Password  *string `json:"password" binding:"omitempty,min=3,max=72"`
	FirstName *string `json:"firstName" binding:"omitempty,max=255"`
	LastName  *string `json:"lastName" binding:"omitempty,max=255"`
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID        int64         `json:"id" example:"1"`
	Email     string        `json:"email" example:"jack@example.com"`
	FirstName string        `json:"firstName" example:"Jack"`
	LastName  string        `json:"lastName" example:"Jones"`
	CreatedAt dto.Timestamp `json:"createdAt" swaggertype:"string" example:"2024-03-05T09:30:15.123Z"`
}

func toUserResponse(u *identity.UserDTO) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: dto.NewTimestamp(u.CreatedAt),
	}
}

func toUserResponses(users []identity.UserDTO) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}
