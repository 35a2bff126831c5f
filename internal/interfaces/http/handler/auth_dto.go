package handler

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"hexlet@example.com"`
	Password string `json:"password" binding:"required" example:"qwerty"`
}
