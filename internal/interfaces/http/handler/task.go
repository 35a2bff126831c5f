package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/application/tracker"
	domain "github.com/hexlet/taskmanager/internal/domain/tracker"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	BaseHandler
	taskService *tracker.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *tracker.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List godoc
// @Summary      List tasks
// @Description  Filters combine with AND; results are ordered by id
// @Tags         tasks
// @Produce      json
// @Param        titleCont  query string false "Case-insensitive title substring"
// @Param        assigneeId query int    false "Assignee user ID"
// @Param        status     query string false "Status slug"
// @Param        labelId    query int    false "Label ID"
// @Success      200 {array} TaskResponse
// @Header       200 {integer} X-Total-Count "Number of tasks"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var query TaskQuery
	if !h.BindQuery(c, &query) {
		return
	}
	tasks, err := h.taskService.List(c.Request.Context(), domain.TaskFilter{
		TitleCont:  query.TitleCont,
		AssigneeID: query.AssigneeID,
		StatusSlug: query.Status,
		LabelID:    query.LabelID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	h.SuccessWithTotal(c, out, len(out))
}

// Get godoc
// @Summary      Get task by id
// @Tags         tasks
// @Produce      json
// @Param        id path int true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// Create godoc
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body CreateTaskRequest true "New task"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), tracker.CreateTaskInput{
		Title:      req.Title,
		Content:    req.Content,
		Index:      req.Index,
		AssigneeID: req.AssigneeID,
		StatusSlug: req.Status,
		LabelIDs:   req.LabelIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTaskResponse(task))
}

// Update godoc
// @Summary      Update task
// @Description  Partial update; null clears content, index and assignee_id
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path int true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.taskService.Update(c.Request.Context(), tracker.UpdateTaskInput{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Index:      req.Index,
		AssigneeID: req.AssigneeID,
		StatusSlug: req.Status,
		LabelIDs:   req.LabelIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// Delete godoc
// @Summary      Delete task
// @Tags         tasks
// @Param        id path int true "Task ID"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
