package identity

import (
	"context"
	"errors"
	"time"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AssignmentCounter counts tasks assigned to a user.
// tracker.TaskRepository satisfies it.
type AssignmentCounter interface {
	CountByAssignee(ctx context.Context, userID int64) (int64, error)
}

// UserService handles user management operations
type UserService struct {
	userRepo        identity.UserRepository
	assignments     AssignmentCounter
	logger          *zap.Logger
	blacklist       auth.TokenBlacklist
	tokenTTL        time.Duration
	businessMetrics *telemetry.BusinessMetrics
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	assignments AssignmentCounter,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		assignments: assignments,
		logger:      logger,
	}
}

// SetTokenBlacklist makes Delete revoke the user's outstanding tokens.
// ttl should be the access token lifetime.
func (s *UserService) SetTokenBlacklist(blacklist auth.TokenBlacklist, ttl time.Duration) {
	s.blacklist = blacklist
	s.tokenTTL = ttl
}

// SetBusinessMetrics enables created/deleted counters
func (s *UserService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// List returns all users ordered by id
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewInternalError("Failed to list users")
	}
	return toUserDTOs(users), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// Create registers a new user
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Creating new user", zap.String("email", email))

	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.repoError("Failed to create user", err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityCreated(ctx, telemetry.EntityUser)
	}
	s.logger.Info("User created successfully",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	return toUserDTO(user), nil
}

// Update applies a partial update. Users may only update themselves.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	if input.ActorID != input.ID {
		s.logger.Warn("Attempt to update another user",
			zap.Int64("actor_id", input.ActorID),
			zap.Int64("user_id", input.ID))
		return nil, shared.ErrForbidden.WithMessage("You can only update your own account")
	}

	user, err := s.findUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := identity.NormalizeEmail(*input.Email)
		if email != user.Email {
			if err := s.ensureEmailAvailable(ctx, email); err != nil {
				return nil, err
			}
		}
		if err := user.SetEmail(email); err != nil {
			return nil, err
		}
	}
	if input.FirstName != nil {
		if err := user.SetFirstName(*input.FirstName); err != nil {
			return nil, err
		}
	}
	if input.LastName != nil {
		if err := user.SetLastName(*input.LastName); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, s.repoError("Failed to update user", err)
	}

	s.logger.Info("User updated", zap.Int64("user_id", user.ID))
	return toUserDTO(user), nil
}

// Delete removes a user. Users may only delete themselves, and only while no
// task is assigned to them.
func (s *UserService) Delete(ctx context.Context, id, actorID int64) error {
	if actorID != id {
		s.logger.Warn("Attempt to delete another user",
			zap.Int64("actor_id", actorID),
			zap.Int64("user_id", id))
		return shared.ErrForbidden.WithMessage("You can only delete your own account")
	}

	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}

	assigned, err := s.assignments.CountByAssignee(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count assigned tasks", zap.Error(err))
		return shared.NewInternalError("Failed to delete user")
	}
	if assigned > 0 {
		return shared.ErrResourceInUse.WithMessage("User has assigned tasks")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return s.repoError("Failed to delete user", err)
	}

	if s.blacklist != nil {
		if err := s.blacklist.InvalidateUserTokens(ctx, id, s.tokenTTL); err != nil {
			s.logger.Warn("Failed to invalidate tokens of deleted user",
				zap.Int64("user_id", id),
				zap.Error(err))
		}
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordEntityDeleted(ctx, telemetry.EntityUser)
	}
	s.logger.Info("User deleted", zap.Int64("user_id", id))
	return nil
}

func (s *UserService) findUser(ctx context.Context, id int64) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound.WithMessage("User not found")
		}
		s.logger.Error("Failed to find user", zap.Int64("user_id", id), zap.Error(err))
		return nil, shared.NewInternalError("Failed to find user")
	}
	return user, nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return shared.NewInternalError("Failed to check email availability")
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Email is already taken")
	}
	return nil
}

// repoError passes domain errors raised by the repository (constraint races,
// vanished rows) through and hides everything else behind an internal error.
func (s *UserService) repoError(message string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error(message, zap.Error(err))
	return shared.NewInternalError(message)
}
