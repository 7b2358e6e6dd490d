package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/middleware"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/response"
)

// UploadHandler exposes file upload endpoints.
type UploadHandler struct {
	uploads *service.UploadService
	logger  *zap.Logger
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploads *service.UploadService, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{uploads: uploads, logger: logger}
}

// Upload godoc
// @Summary Upload an image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	var uploadedBy *string
	if claims := middleware.ClaimsFrom(c); claims != nil {
		uploadedBy = &claims.UserID
	}

	result, err := h.uploads.Store(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file, uploadedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List uploaded files
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /uploads [get]
func (h *UploadHandler) List(c *gin.Context) {
	files, err := h.uploads.List(c.Request.Context(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}

// SignedLink godoc
// @Summary Issue a fresh signed download link
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} response.Envelope
// @Router /uploads/{id}/link [get]
func (h *UploadHandler) SignedLink(c *gin.Context) {
	result, err := h.uploads.SignedLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a file using a signed token
// @Tags Uploads
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /uploads/download [get]
func (h *UploadHandler) Download(c *gin.Context) {
	meta, file, err := h.uploads.ResolveDownload(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.OriginalName))
	c.Header("Content-Type", meta.MimeType)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("upload download interrupted", zap.String("id", meta.ID), zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete an uploaded file
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 204
// @Router /uploads/{id} [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.uploads.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
