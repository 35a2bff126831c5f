package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/hexlet/taskmanager/internal/application/identity"
	trackerapp "github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/hexlet/taskmanager/internal/interfaces/http/handler"
	"github.com/hexlet/taskmanager/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "task-manager", Env: "test"},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			RateLimitWindow:  time.Minute,
			CORSAllowOrigins: []string{"http://localhost:3000"},
		},
		Swagger:   config.SwaggerConfig{Enabled: false},
		Telemetry: config.TelemetryConfig{ServiceName: "task-manager-test"},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, mutate func(*EngineDeps)) *gin.Engine {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db.DB)
	statusRepo := persistence.NewGormTaskStatusRepository(db.DB)
	labelRepo := persistence.NewGormLabelRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "engine-test-secret-at-least-32-characters",
		AccessTokenExpiration: time.Hour,
		Issuer:                "task-manager-test",
	})
	authService := identityapp.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), log)

	deps := EngineDeps{
		Config:        cfg,
		Logger:        log,
		Authenticator: authService,
		Handlers: Handlers{
			Auth:       handler.NewAuthHandler(authService),
			User:       handler.NewUserHandler(identityapp.NewUserService(userRepo, taskRepo, log)),
			TaskStatus: handler.NewTaskStatusHandler(trackerapp.NewTaskStatusService(statusRepo, taskRepo, log)),
			Label:      handler.NewLabelHandler(trackerapp.NewLabelService(labelRepo, taskRepo, log)),
			Task:       handler.NewTaskHandler(trackerapp.NewTaskService(taskRepo, statusRepo, labelRepo, userRepo, log)),
			System:     handler.NewSystemHandler(map[string]handler.Pinger{"database": handler.PingerFunc(db.Ping)}),
		},
	}
	if mutate != nil {
		mutate(&deps)
	}

	engine, err := NewEngine(deps)
	require.NoError(t, err)
	return engine
}

func request(t *testing.T, engine *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, engine *gin.Engine, email, password string) string {
	t.Helper()

	w := request(t, engine, http.MethodPost, "/api/users", map[string]string{
		"email":     email,
		"password":  password,
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(t, engine, http.MethodPost, "/api/login", map[string]string{
		"username": email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Body.String()
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestEngine_TaskLifecycle(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)
	token := signUp(t, engine, "ada@example.com", "analytical")

	w := request(t, engine, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Draft", "slug": "draft"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(t, engine, http.MethodPost, "/api/labels", map[string]string{"name": "feature"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var label handler.LabelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &label))

	w = request(t, engine, http.MethodPost, "/api/tasks", map[string]any{
		"title":        "Write docs",
		"status":       "draft",
		"taskLabelIds": []int64{label.ID},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(t, engine, http.MethodGet, fmt.Sprintf("/api/tasks?labelId=%d", label.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
	var tasks []handler.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write docs", tasks[0].Title)
	assert.Equal(t, []int64{label.ID}, tasks[0].LabelIDs)

	w = request(t, engine, http.MethodDelete, fmt.Sprintf("/api/labels/%d", label.ID), nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeResourceInUse, errorCode(t, w))

	w = request(t, engine, http.MethodPost, "/api/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, engine, http.MethodGet, "/api/tasks", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
}

func TestEngine_PublicAndProtectedRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)

	w := request(t, engine, http.MethodGet, "/api/welcome", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.WelcomeMessage, w.Body.String())

	w = request(t, engine, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/users", "/api/task_statuses", "/api/labels", "/api/tasks"} {
		w = request(t, engine, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w), path)
	}

	w = request(t, engine, http.MethodGet, "/api/tasks", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))

	w = request(t, engine, http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestEngine_Headers(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)

	t.Run("request id is generated and echoed", func(t *testing.T) {
		w := request(t, engine, http.MethodGet, "/api/welcome", nil, "")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/api/welcome", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("security headers", func(t *testing.T) {
		w := request(t, engine, http.MethodGet, "/api/welcome", nil, "")
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("cors preflight for configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
	})

	t.Run("cors ignores unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/welcome", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestEngine_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MaxBodySize = 64
	engine := newTestEngine(t, cfg, nil)

	w := request(t, engine, http.MethodPost, "/api/users", map[string]string{
		"email":     "long@example.com",
		"password":  strings.Repeat("p", 100),
		"firstName": "Long",
	}, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, errorCode(t, w))
}

func TestEngine_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	engine := newTestEngine(t, testConfig(), func(d *EngineDeps) { d.RateLimiter = limiter })

	for i := 0; i < 2; i++ {
		w := request(t, engine, http.MethodGet, "/api/welcome", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := request(t, engine, http.MethodGet, "/api/welcome", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestEngine_Swagger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		engine := newTestEngine(t, testConfig(), nil)
		w := request(t, engine, http.MethodGet, "/swagger/index.html", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ip allow list", func(t *testing.T) {
		cfg := testConfig()
		cfg.Swagger = config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}
		engine := newTestEngine(t, cfg, nil)

		w := request(t, engine, http.MethodGet, "/swagger/index.html", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	})

	t.Run("requires auth", func(t *testing.T) {
		cfg := testConfig()
		cfg.Swagger = config.SwaggerConfig{Enabled: true, RequireAuth: true}
		engine := newTestEngine(t, cfg, nil)

		w := request(t, engine, http.MethodGet, "/swagger/index.html", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEngine_Telemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = meterProvider.Shutdown(t.Context()) })

	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tracerProvider.Shutdown(t.Context()) })

	engine := newTestEngine(t, testConfig(), func(d *EngineDeps) {
		d.Meter = meterProvider.Meter("http.server")
		d.TracerProvider = tracerProvider
	})

	assert.Equal(t, http.StatusOK, request(t, engine, http.MethodGet, "/api/welcome", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(t, engine, http.MethodGet, "/api/tasks", nil, "").Code)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Contains(t, spans[0].Name(), "/api/welcome")
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[1].Name(), "/api/tasks")
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}
