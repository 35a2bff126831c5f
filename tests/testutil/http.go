package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIClient issues JSON requests against an in-process http.Handler and
// carries the bearer token between calls.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	Token   string
}

// NewAPIClient creates a client for handler.
func NewAPIClient(t *testing.T, handler http.Handler) *APIClient {
	t.Helper()
	return &APIClient{t: t, handler: handler}
}

// Do sends a request with body encoded as JSON when non-nil.
func (c *APIClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(c.t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Get is shorthand for Do(GET).
func (c *APIClient) Get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodGet, path, nil)
}

// Post is shorthand for Do(POST).
func (c *APIClient) Post(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodPost, path, body)
}

// Put is shorthand for Do(PUT).
func (c *APIClient) Put(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodPut, path, body)
}

// Delete is shorthand for Do(DELETE).
func (c *APIClient) Delete(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodDelete, path, nil)
}

// Login posts credentials to /api/login and keeps the returned token.
func (c *APIClient) Login(username, password string) {
	c.t.Helper()

	w := c.Post("/api/login", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	c.Token = w.Body.String()
}

// DecodeJSON parses a recorded response body into T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// RequireStatus fails the test unless the response has the given status.
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "Unexpected status code, body: %s", w.Body.String())
}

// AssertErrorResponse asserts the response carries the error envelope with
// the given status and code.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status code, body: %s", w.Body.String())
	resp := DecodeJSON[dto.ErrorResponse](t, w)
	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, code, resp.Error.Code, "Unexpected error code")
	return resp
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
