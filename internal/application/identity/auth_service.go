package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo        identity.UserRepository
	jwtService      *auth.JWTService
	blacklist       auth.TokenBlacklist
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewAuthService creates a new authentication service.
// blacklist may be nil, in which case logout only logs.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetBusinessMetrics enables login counters
func (s *AuthService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Login authenticates a user by email and password and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to find user during login", zap.Error(err))
			return nil, shared.NewInternalError("Failed to authenticate")
		}
		s.logger.Warn("User not found during login", zap.String("email", email))
		s.recordLogin(ctx, false)
		return nil, shared.ErrInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		s.recordLogin(ctx, false)
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewInternalError("Failed to generate authentication token")
	}

	s.recordLogin(ctx, true)
	s.logger.Info("User logged in successfully",
		zap.String("email", email),
		zap.Int64("user_id", user.ID))

	return &LoginResult{
		AccessToken: token.Token,
		TokenID:     token.ID,
		ExpiresAt:   token.ExpiresAt,
		User:        *toUserDTO(user),
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.Int64("user_id", input.UserID),
		zap.String("jti", input.TokenJTI))

	if s.blacklist == nil {
		s.logger.Warn("Token blacklist not configured, logout is client-side only")
		return nil
	}
	if input.TokenJTI == "" {
		return shared.NewValidationError("Token has no ID")
	}

	ttl := time.Until(input.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to blacklist token",
			zap.String("jti", input.TokenJTI),
			zap.Error(err))
		return shared.NewInternalError("Failed to revoke token")
	}
	return nil
}

// Authenticate validates a bearer token, checks revocation and returns its claims
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if s.blacklist == nil {
		return claims, nil
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, blacklistUnavailable(err)
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Failed to check user token invalidation",
			zap.String("user_id", strconv.FormatInt(claims.UserID, 10)),
			zap.Error(err))
		return nil, blacklistUnavailable(err)
	}
	if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}

	return claims, nil
}

// blacklistUnavailable marks a revocation store failure so callers can tell it
// apart from a rejected token
func blacklistUnavailable(err error) error {
	if errors.Is(err, auth.ErrBlacklistUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", auth.ErrBlacklistUnavailable, err)
}

func (s *AuthService) recordLogin(ctx context.Context, success bool) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordLogin(ctx, success)
	}
}
