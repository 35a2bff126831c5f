package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)
	acc := env.register(t)

	label := env.createLabel(t, acc.Token, "feature")
	path := fmt.Sprintf("/api/labels/%d", label.ID)

	t.Run("name length is bounded", func(t *testing.T) {
		for _, name := range []string{"ab", strings.Repeat("x", 1001)} {
			rec := env.do(t, http.MethodPost, "/api/labels", map[string]string{"name": name}, acc.Token)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "name", decodeError(t, rec).Details[0].Field)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/labels", map[string]string{"name": "feature"}, acc.Token)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeError(t, rec).Code)
	})

	t.Run("list and get", func(t *testing.T) {
		env.createLabel(t, acc.Token, "bug")

		rec := env.do(t, http.MethodGet, "/api/labels", nil, acc.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get(TotalCountHeader))

		rec = env.do(t, http.MethodGet, path, nil, acc.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "feature", decode[LabelResponse](t, rec).Name)
	})

	t.Run("update", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, path, map[string]string{"name": "enhancement"}, acc.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "enhancement", decode[LabelResponse](t, rec).Name)
	})

	t.Run("in use cannot be deleted", func(t *testing.T) {
		env.createStatus(t, acc.Token, "Draft", "draft")
		task := env.createTask(t, acc.Token, map[string]any{
			"title":        "Labelled",
			"status":       "draft",
			"taskLabelIds": []int64{label.ID},
		})

		rec := env.do(t, http.MethodDelete, path, nil, acc.Token)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeResourceInUse, decodeError(t, rec).Code)

		rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{"taskLabelIds": []int64{}}, acc.Token)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, path, nil, acc.Token)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodDelete, path, nil, acc.Token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
