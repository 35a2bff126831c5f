package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/hexlet/taskmanager/internal/application/identity"
	trackerapp "github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/hexlet/taskmanager/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires real services over an in-memory sqlite database
type testEnv struct {
	router    *gin.Engine
	db        *persistence.Database
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newTestEnv(t *testing.T) *testEnv {
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
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "task-manager-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, taskRepo, log)
	userService.SetTokenBlacklist(blacklist, time.Hour)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	statusHandler := NewTaskStatusHandler(trackerapp.NewTaskStatusService(statusRepo, taskRepo, log))
	labelHandler := NewLabelHandler(trackerapp.NewLabelService(labelRepo, taskRepo, log))
	taskHandler := NewTaskHandler(trackerapp.NewTaskService(taskRepo, statusRepo, labelRepo, userRepo, log))
	systemHandler := NewSystemHandler(map[string]Pinger{
		"database": PingerFunc(db.Ping),
	})

	middleware.SetupValidator()
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.BodyLimit(1<<20))
	router.GET("/health", systemHandler.Health)

	api := router.Group("/api", middleware.JWTAuthMiddleware(authService))
	api.GET("/welcome", systemHandler.Welcome)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users", userHandler.Create)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	api.GET("/task_statuses", statusHandler.List)
	api.GET("/task_statuses/:id", statusHandler.Get)
	api.POST("/task_statuses", statusHandler.Create)
	api.PUT("/task_statuses/:id", statusHandler.Update)
	api.DELETE("/task_statuses/:id", statusHandler.Delete)

	api.GET("/labels", labelHandler.List)
	api.GET("/labels/:id", labelHandler.Get)
	api.POST("/labels", labelHandler.Create)
	api.PUT("/labels/:id", labelHandler.Update)
	api.DELETE("/labels/:id", labelHandler.Delete)

	api.GET("/tasks", taskHandler.List)
	api.GET("/tasks/:id", taskHandler.Get)
	api.POST("/tasks", taskHandler.Create)
	api.PUT("/tasks/:id", taskHandler.Update)
	api.DELETE("/tasks/:id", taskHandler.Delete)

	return &testEnv{router: router, db: db, jwt: jwtService, blacklist: blacklist}
}

// do sends body (a string is sent verbatim, anything else as JSON)
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type account struct {
	ID       int64
	Email    string
	Password string
	Token    string
}

// register creates a user through the API and logs in
func (e *testEnv) register(t *testing.T) account {
	t.Helper()

	acc := account{Email: gofakeit.Email(), Password: gofakeit.Password(true, true, true, false, false, 12)}
	rec := e.do(t, http.MethodPost, "/api/users", map[string]any{
		"email":     acc.Email,
		"password":  acc.Password,
		"firstName": gofakeit.FirstName(),
		"lastName":  gofakeit.LastName(),
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	acc.ID = decode[UserResponse](t, rec).ID

	rec = e.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": acc.Email,
		"password": acc.Password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	acc.Token = rec.Body.String()
	return acc
}

func (e *testEnv) createStatus(t *testing.T, token, name, slug string) TaskStatusResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/task_statuses", map[string]string{"name": name, "slug": slug}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TaskStatusResponse](t, rec)
}

func (e *testEnv) createLabel(t *testing.T, token, name string) LabelResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/labels", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[LabelResponse](t, rec)
}

func (e *testEnv) createTask(t *testing.T, token string, body map[string]any) TaskResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/tasks", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TaskResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	body := decode[dto.ErrorResponse](t, rec)
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	return body.Error
}
