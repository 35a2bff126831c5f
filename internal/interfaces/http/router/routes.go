package router

import (
	"github.com/hexlet/taskmanager/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers served under /api
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	TaskStatus *handler.TaskStatusHandler
	Label      *handler.LabelHandler
	Task       *handler.TaskHandler
	System     *handler.SystemHandler
}

// APIGroups returns one route group per resource
func APIGroups(h Handlers) []RouteRegistrar {
	system := NewDomainGroup("system", "").
		GET("/welcome", h.System.Welcome).
		POST("/login", h.Auth.Login).
		POST("/logout", h.Auth.Logout)

	users := NewDomainGroup("users", "/users").
		GET("", h.User.List).
		GET("/:id", h.User.Get).
		POST("", h.User.Create).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete)

	statuses := NewDomainGroup("task_statuses", "/task_statuses").
		GET("", h.TaskStatus.List).
		GET("/:id", h.TaskStatus.Get).
		POST("", h.TaskStatus.Create).
		PUT("/:id", h.TaskStatus.Update).
		DELETE("/:id", h.TaskStatus.Delete)

	labels := NewDomainGroup("labels", "/labels").
		GET("", h.Label.List).
		GET("/:id", h.Label.Get).
		POST("", h.Label.Create).
		PUT("/:id", h.Label.Update).
		DELETE("/:id", h.Label.Delete)

	tasks := NewDomainGroup("tasks", "/tasks").
		GET("", h.Task.List).
		GET("/:id", h.Task.Get).
		POST("", h.Task.Create).
		PUT("/:id", h.Task.Update).
		DELETE("/:id", h.Task.Delete)

	return []RouteRegistrar{system, users, statuses, labels, tasks}
}
