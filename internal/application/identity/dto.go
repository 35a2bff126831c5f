package identity

import (
	"time"

	"github.com/hexlet/taskmanager/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // client IP, logged only
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	TokenID     string
	ExpiresAt   time.Time
	User        UserDTO
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	UserID    int64
	TokenJTI  string
	ExpiresAt time.Time
}

// CreateUserInput contains input for registering a user
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput contains a partial update. Nil fields are left unchanged.
type UpdateUserInput struct {
	ID        int64
	ActorID   int64 // authenticated user performing the update
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UserDTO is the public view of a user; it never carries the password
type UserDTO struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func toUserDTOs(users []*identity.User) []UserDTO {
	result := make([]UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, *toUserDTO(user))
	}
	return result
}
