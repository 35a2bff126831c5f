package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.basePath)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.middleware)
}

func TestRouterWithBasePath(t *testing.T) {
	r := NewRouter(gin.New(), WithBasePath("/internal"))
	assert.Equal(t, "/internal", r.basePath)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("labels", "/labels").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "labels") })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/labels")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "labels", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/labels").Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewDomainGroup("tasks", "/tasks").Use(mark("group")).
		GET("/:id", func(c *gin.Context) {
			order = append(order, "handler:"+c.Param("id"))
			c.Status(http.StatusNoContent)
		})

	NewRouter(engine).Use(mark("first"), mark("second")).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/tasks/7")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"first", "second", "group", "handler:7"}, order)
}

func TestDomainGroup(t *testing.T) {
	t.Run("exposes name and prefix", func(t *testing.T) {
		g := NewDomainGroup("task_statuses", "/task_statuses")
		assert.Equal(t, "task_statuses", g.Name())
		assert.Equal(t, "/task_statuses", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("users", "/users").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/users"},
			{http.MethodPost, "/api/users"},
			{http.MethodPut, "/api/users/1"},
			{http.MethodDelete, "/api/users/1"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, tt.method)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("lists routes", func(t *testing.T) {
		noop := func(*gin.Context) {}
		g := NewDomainGroup("labels", "/labels").GET("", noop).DELETE("/:id", noop)
		assert.Equal(t, []string{"GET /labels", "DELETE /labels/:id"}, g.Routes())
	})
}

func TestAPIGroups(t *testing.T) {
	groups := APIGroups(Handlers{})

	var routes []string
	for _, registrar := range groups {
		routes = append(routes, registrar.(*DomainGroup).Routes()...)
	}

	for _, want := range []string{
		"GET /welcome",
		"POST /login",
		"POST /logout",
		"GET /users",
		"GET /users/:id",
		"POST /users",
		"PUT /users/:id",
		"DELETE /users/:id",
		"GET /task_statuses",
		"POST /task_statuses",
		"PUT /task_statuses/:id",
		"DELETE /task_statuses/:id",
		"GET /labels",
		"PUT /labels/:id",
		"GET /tasks",
		"GET /tasks/:id",
		"POST /tasks",
		"PUT /tasks/:id",
		"DELETE /tasks/:id",
	} {
		assert.Contains(t, routes, want)
	}
	assert.Len(t, routes, 23)
}
