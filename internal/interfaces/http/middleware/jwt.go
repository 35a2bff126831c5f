package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/logger"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// errMissingToken is reported when no bearer token was presented
var errMissingToken = errors.New("missing bearer token")

// Authenticator turns a bearer token into verified claims
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// PublicRoute is a method and path pair reachable without a token.
// An empty Method matches any method.
type PublicRoute struct {
	Method string
	Path   string
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Authenticator Authenticator
	// PublicRoutes are exact routes that don't require authentication
	PublicRoutes []PublicRoute
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback on authentication failure (default: error envelope)
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig returns the JWT configuration of the task manager API
func DefaultJWTConfig(authenticator Authenticator) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Authenticator: authenticator,
		PublicRoutes: []PublicRoute{
			{Method: http.MethodPost, Path: "/api/login"},
			{Method: http.MethodPost, Path: "/api/users"},
			{Method: http.MethodGet, Path: "/api/welcome"},
			{Path: "/health"},
		},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware with the default config
func JWTAuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(authenticator))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if isPublic(cfg, c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, errMissingToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, errMissingToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, errMissingToken, "Missing token")
			return
		}

		claims, err := cfg.Authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(
			logger.WithUserID(c.Request.Context(), strconv.FormatInt(claims.UserID, 10)),
		)

		c.Next()
	}
}

func isPublic(cfg JWTMiddlewareConfig, method, path string) bool {
	for _, route := range cfg.PublicRoutes {
		if route.Path == path && (route.Method == "" || route.Method == method) {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	log := logger.Enrich(c.Request.Context(), cfg.Logger)
	status := http.StatusUnauthorized
	var errorCode string
	switch {
	case errors.Is(err, errMissingToken):
		errorCode = dto.ErrCodeUnauthorized
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		errorCode = dto.ErrCodeTokenRevoked
		message = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingUserID):
		errorCode = dto.ErrCodeTokenInvalid
		log.Debug("Rejected bearer token", zap.Error(err))
	case errors.Is(err, auth.ErrBlacklistUnavailable):
		status, errorCode = http.StatusInternalServerError, dto.ErrCodeInternal
		message = "Token revocation check unavailable"
		log.Error("Token blacklist unavailable", zap.Error(err))
	default:
		status, errorCode = http.StatusInternalServerError, dto.ErrCodeInternal
		message = "An internal error occurred"
		log.Error("Unexpected authentication error", zap.Error(err))
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(
		errorCode, message, GetRequestID(c),
	))
}

// GetJWTClaims returns the verified claims, or nil on public routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user id, or 0
func GetJWTUserID(c *gin.Context) int64 {
	return c.GetInt64(JWTUserIDKey)
}
