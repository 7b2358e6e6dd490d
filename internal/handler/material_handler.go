package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/response"
)

// MaterialHandler exposes the study material library endpoints.
type MaterialHandler struct {
	materials *service.MaterialService
}

// NewMaterialHandler constructs handler.
func NewMaterialHandler(materials *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// List godoc
// @Summary List study materials
// @Tags Materials
// @Produce json
// @Param subject query string false "Subject"
// @Param grade query string false "Grade"
// @Param category query string false "Category"
// @Param q query string false "Free text search"
// @Success 200 {object} response.Envelope
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	filter := models.MaterialFilter{
		Subject:  c.Query("subject"),
		Grade:    c.Query("grade"),
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}

	materials, total, err := h.materials.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Search godoc
// @Summary Search materials by title, description, subject or tags
// @Tags Materials
// @Produce json
// @Param query path string true "Search text"
// @Success 200 {object} response.Envelope
// @Router /materials/search/{query} [get]
func (h *MaterialHandler) Search(c *gin.Context) {
	filter := models.MaterialFilter{
		Search:   c.Param("query"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}

	materials, total, err := h.materials.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Fetch one material and count the view
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Router /materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.materials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Create godoc
// @Summary Catalog an uploaded file as a study material
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateMaterialRequest true "Material payload"
// @Success 201 {object} response.Envelope
// @Router /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	material, err := h.materials.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// DownloadLink godoc
// @Summary Issue a signed download link and count the download
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Router /materials/{id}/download [get]
func (h *MaterialHandler) DownloadLink(c *gin.Context) {
	download, err := h.materials.DownloadLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, download, nil)
}

// Stats godoc
// @Summary Library usage counters
// @Tags Materials
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /materials/stats/summary [get]
func (h *MaterialHandler) Stats(c *gin.Context) {
	stats, err := h.materials.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Delete godoc
// @Summary Remove a material from the catalog
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 204
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
