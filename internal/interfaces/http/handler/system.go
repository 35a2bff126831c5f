package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/infrastructure/logger"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// WelcomeMessage is the greeting served at /api/welcome
const WelcomeMessage = "Welcome to Spring!"

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency whose liveness the health endpoint reports
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

// Ping calls f
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// SystemHandler serves the welcome and health endpoints
type SystemHandler struct {
	BaseHandler
	checks map[string]Pinger
}

// NewSystemHandler creates a system handler. checks maps a dependency name
// (database, redis) to its probe.
func NewSystemHandler(checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{checks: checks}
}

// Welcome godoc
// @Summary      Welcome message
// @Tags         system
// @Produce      plain
// @Success      200 {string} string "Welcome to Spring!"
// @Router       /welcome [get]
func (h *SystemHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}

// Health godoc
// @Summary      Health check
// @Description  Reports the state of the database and other dependencies
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "healthy", Checks: map[string]string{}}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Status = "unhealthy"
			resp.Checks[name] = "down"
			continue
		}
		resp.Checks[name] = "up"
	}
	resp.Duration = time.Since(start).String()

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
