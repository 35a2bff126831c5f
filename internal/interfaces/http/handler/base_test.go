package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/hexlet/taskmanager/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.RequestIDKey, "req-1")
	return c, rec
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"in use", shared.ErrResourceInUse, http.StatusUnprocessableEntity, dto.ErrCodeResourceInUse},
		{"invalid reference", shared.ErrInvalidReference, http.StatusUnprocessableEntity, dto.ErrCodeInvalidReference},
		{"validation", shared.NewValidationError("bad"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/", "")
			(&BaseHandler{}).HandleError(c, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			info := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, "req-1", info.RequestID)
		})
	}

	t.Run("plain error message is not leaked", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/", "")
		(&BaseHandler{}).HandleError(c, errors.New("pq: password authentication failed"))

		assert.NotContains(t, rec.Body.String(), "pq:")
		assert.Len(t, c.Errors, 1)
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	tests := []struct {
		param  string
		wantOK bool
		wantID int64
	}{
		{"42", true, 42},
		{"0", false, 0},
		{"-3", false, 0},
		{"abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/", "")
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			id, ok := (&BaseHandler{}).PathID(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestBaseHandler_BindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required"`
	}
	middleware.SetupValidator()

	t.Run("empty body", func(t *testing.T) {
		c, rec := newTestContext(http.MethodPost, "/", "")
		var p payload
		assert.False(t, (&BaseHandler{}).BindJSON(c, &p))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeError(t, rec).Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		c, rec := newTestContext(http.MethodPost, "/", `{"name":1}`)
		var p payload
		assert.False(t, (&BaseHandler{}).BindJSON(c, &p))
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, rec).Code)
	})

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/", `{"name":"ok"}`)
		var p payload
		assert.True(t, (&BaseHandler{}).BindJSON(c, &p))
		assert.Equal(t, "ok", p.Name)
	})
}

func TestBaseHandler_CurrentUserIDWithoutClaims(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")

	_, ok := (&BaseHandler{}).CurrentUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
