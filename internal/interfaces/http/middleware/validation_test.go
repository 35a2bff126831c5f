package middleware

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type labelPayload struct {
	Name  string `json:"name" binding:"required,min=3,max=1000"`
	Email string `json:"email" binding:"omitempty,email"`
	Page  int    `form:"page" binding:"omitempty,gte=1"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/labels", func(c *gin.Context) {
		var req labelPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantField   string
		wantTag     string
		wantMessage string
	}{
		{
			name:        "required",
			body:        `{}`,
			wantField:   "name",
			wantTag:     "required",
			wantMessage: "This field is required",
		},
		{
			name:        "too short",
			body:        `{"name":"ab"}`,
			wantField:   "name",
			wantTag:     "min",
			wantMessage: "Must be at least 3 characters",
		},
		{
			name:        "bad email",
			body:        `{"name":"bug","email":"nope"}`,
			wantField:   "email",
			wantTag:     "email",
			wantMessage: "Invalid email format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/labels", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(validationRouter(), req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "ERR_VALIDATION", body.Error.Code)
			assert.NotEmpty(t, body.Error.RequestID)
			require.Len(t, body.Error.Details, 1)
			assert.Equal(t, tt.wantField, body.Error.Details[0].Field)
			assert.Equal(t, tt.wantTag, body.Error.Details[0].Tag)
			assert.Equal(t, tt.wantMessage, body.Error.Details[0].Message)
		})
	}
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(assert.AnError))
}

func TestJSONFieldName(t *testing.T) {
	typ := reflect.TypeOf(labelPayload{})
	field := func(name string) reflect.StructField {
		f, ok := typ.FieldByName(name)
		require.True(t, ok)
		return f
	}

	assert.Equal(t, "name", jsonFieldName(field("Name")))
	assert.Equal(t, "page", jsonFieldName(field("Page")))
}
