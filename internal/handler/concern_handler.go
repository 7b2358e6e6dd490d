package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/response"
)

// ConcernHandler exposes student counselling endpoints.
type ConcernHandler struct {
	concerns *service.ConcernService
}

// NewConcernHandler constructs handler.
func NewConcernHandler(concerns *service.ConcernService) *ConcernHandler {
	return &ConcernHandler{concerns: concerns}
}

// Create godoc
// @Summary Submit a student concern
// @Tags Concerns
// @Accept json
// @Produce json
// @Param payload body service.CreateConcernRequest true "Concern payload"
// @Success 201 {object} response.Envelope
// @Router /concerns [post]
func (h *ConcernHandler) Create(c *gin.Context) {
	var req service.CreateConcernRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	concern, err := h.concerns.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, concern)
}

// List godoc
// @Summary List submitted concerns
// @Tags Concerns
// @Produce json
// @Security BearerAuth
// @Param urgency query string false "Urgency level"
// @Success 200 {object} response.Envelope
// @Router /concerns [get]
func (h *ConcernHandler) List(c *gin.Context) {
	filter := models.ConcernFilter{
		Urgency:  c.Query("urgency"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}

	concerns, total, err := h.concerns.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concerns, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Fetch one concern
// @Tags Concerns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Concern ID"
// @Success 200 {object} response.Envelope
// @Router /concerns/{id} [get]
func (h *ConcernHandler) Get(c *gin.Context) {
	concern, err := h.concerns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concern, nil)
}

// Update godoc
// @Summary Amend a concern's text, urgency or details
// @Tags Concerns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Concern ID"
// @Param payload body service.UpdateConcernRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /concerns/{id} [put]
func (h *ConcernHandler) Update(c *gin.Context) {
	var req service.UpdateConcernRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	concern, err := h.concerns.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concern, nil)
}

// Stats godoc
// @Summary Concern counts per urgency level
// @Tags Concerns
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /concerns/stats [get]
func (h *ConcernHandler) Stats(c *gin.Context) {
	stats, err := h.concerns.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Delete godoc
// @Summary Remove a concern
// @Tags Concerns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Concern ID"
// @Success 204
// @Router /concerns/{id} [delete]
func (h *ConcernHandler) Delete(c *gin.Context) {
	if err := h.concerns.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
