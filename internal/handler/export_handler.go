package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/response"
)

// ExportHandler exposes dataset export endpoints.
type ExportHandler struct {
	exports *service.ExportService
	logger  *zap.Logger
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, logger: logger}
}

// Export godoc
// @Summary Render a dataset export
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param resource path string true "admissions, visits, registrations or teachers"
// @Param format query string true "csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /exports/{resource} [post]
func (h *ExportHandler) Export(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context(), c.Param("resource"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a rendered export using a signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	relPath, fileName, err := h.exports.ResolveDownload(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.OpenStored(relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("export download interrupted", zap.String("file", fileName), zap.Error(err))
	}
}
