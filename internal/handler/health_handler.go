package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
)

// HealthHandler serves the liveness probe used by the dashboard and deploys.
type HealthHandler struct {
	announcements *service.AnnouncementService
}

// NewHealthHandler constructs handler.
func NewHealthHandler(announcements *service.AnnouncementService) *HealthHandler {
	return &HealthHandler{announcements: announcements}
}

// Health godoc
// @Summary Service health and live announcement counters
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "OK",
		"announcements":  h.announcements.AnnouncementCount(),
		"connectedUsers": h.announcements.KnownUserCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
