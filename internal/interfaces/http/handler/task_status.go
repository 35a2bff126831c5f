package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/application/tracker"
)

// TaskStatusHandler handles task status HTTP requests
type TaskStatusHandler struct {
	BaseHandler
	statusService *tracker.TaskStatusService
}

// NewTaskStatusHandler creates a new task status handler
func NewTaskStatusHandler(statusService *tracker.TaskStatusService) *TaskStatusHandler {
	return &TaskStatusHandler{statusService: statusService}
}

// List godoc
// @Summary      List task statuses
// @Tags         task-statuses
// @Produce      json
// @Success      200 {array} TaskStatusResponse
// @Header       200 {integer} X-Total-Count "Number of statuses"
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /task_statuses [get]
func (h *TaskStatusHandler) List(c *gin.Context) {
	statuses, err := h.statusService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]TaskStatusResponse, len(statuses))
	for i := range statuses {
		out[i] = toTaskStatusResponse(&statuses[i])
	}
	h.SuccessWithTotal(c, out, len(out))
}

// Get godoc
// @Summary      Get task status by id
// @Tags         task-statuses
// @Produce      json
// @Param        id path int true "Task status ID"
// @Success      200 {object} TaskStatusResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /task_statuses/{id} [get]
func (h *TaskStatusHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	status, err := h.statusService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskStatusResponse(status))
}

// Create godoc
// @Summary      Create task status
// @Tags         task-statuses
// @Accept       json
// @Produce      json
// @Param        request body CreateTaskStatusRequest true "New status"
// @Success      201 {object} TaskStatusResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /task_statuses [post]
func (h *TaskStatusHandler) Create(c *gin.Context) {
	var req CreateTaskStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	status, err := h.statusService.Create(c.Request.Context(), tracker.CreateTaskStatusInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTaskStatusResponse(status))
}

// Update godoc
// @Summary      Update task status
// @Tags         task-statuses
// @Accept       json
// @Produce      json
// @Param        id path int true "Task status ID"
// @Param        request body UpdateTaskStatusRequest true "Fields to change"
// @Success      200 {object} TaskStatusResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /task_statuses/{id} [put]
func (h *TaskStatusHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req UpdateTaskStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	status, err := h.statusService.Update(c.Request.Context(), tracker.UpdateTaskStatusInput{
		ID:   id,
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskStatusResponse(status))
}

// Delete godoc
// @Summary      Delete task status
// @Description  Fails with 422 while tasks still use the status
// @Tags         task-statuses
// @Param        id path int true "Task status ID"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /task_statuses/{id} [delete]
func (h *TaskStatusHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.statusService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
