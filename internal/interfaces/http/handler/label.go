package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/application/tracker"
)

// LabelHandler handles label HTTP requests
type LabelHandler struct {
	BaseHandler
	labelService *tracker.LabelService
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(labelService *tracker.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// List godoc
// @Summary      List labels
// @Tags         labels
// @Produce      json
// @Success      200 {array} LabelResponse
// @Header       200 {integer} X-Total-Count "Number of labels"
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /labels [get]
func (h *LabelHandler) List(c *gin.Context) {
	labels, err := h.labelService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]LabelResponse, len(labels))
	for i := range labels {
		out[i] = toLabelResponse(&labels[i])
	}
	h.SuccessWithTotal(c, out, len(out))
}

// Get godoc
// @Summary      Get label by id
// @Tags         labels
// @Produce      json
// @Param        id path int true "Label ID"
// @Success      200 {object} LabelResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /labels/{id} [get]
func (h *LabelHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	label, err := h.labelService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLabelResponse(label))
}

// Create godoc
// @Summary      Create label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        request body CreateLabelRequest true "New label"
// @Success      201 {object} LabelResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /labels [post]
func (h *LabelHandler) Create(c *gin.Context) {
	var req CreateLabelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	label, err := h.labelService.Create(c.Request.Context(), tracker.CreateLabelInput{Name: req.Name})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toLabelResponse(label))
}

// Update godoc
// @Summary      Rename label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        id path int true "Label ID"
// @Param        request body UpdateLabelRequest true "Fields to change"
// @Success      200 {object} LabelResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /labels/{id} [put]
func (h *LabelHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req UpdateLabelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	label, err := h.labelService.Update(c.Request.Context(), tracker.UpdateLabelInput{ID: id, Name: req.Name})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLabelResponse(label))
}

// Delete godoc
// @Summary      Delete label
// @Description  Fails with 422 while tasks still carry the label
// @Tags         labels
// @Param        id path int true "Label ID"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /labels/{id} [delete]
func (h *LabelHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.labelService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
