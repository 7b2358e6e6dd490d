package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
)

// AnnouncementHandler exposes the live announcement board endpoints. The
// response bodies here predate the project-wide envelope and are kept
// byte-compatible for the dashboard clients that consume them.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler constructs handler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// Create godoc
// @Summary Publish an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and message are required"})
		return
	}

	ann, err := h.announcements.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and message are required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "announcement": ann})
}

// List godoc
// @Summary List announcements, most recent first
// @Tags Announcements
// @Produce json
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.announcements.List())
}

// UnreadCount godoc
// @Summary Unread announcement count for a user
// @Tags Announcements
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]int
// @Router /announcements/unread-count/{userId} [get]
func (h *AnnouncementHandler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unreadCount": h.announcements.UnreadCount(c.Param("userId"))})
}

// MarkRead godoc
// @Summary Mark one announcement read for a user
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Router /announcements/{id}/read [post]
func (h *AnnouncementHandler) MarkRead(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	if _, err := h.announcements.MarkRead(c.Param("id"), body.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead godoc
// @Summary Mark every announcement read for a user
// @Tags Announcements
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /announcements/mark-all-read [post]
func (h *AnnouncementHandler) MarkAllRead(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	if err := h.announcements.MarkAllRead(body.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All announcements marked as read"})
}

// ReadStatus godoc
// @Summary Who has read one announcement
// @Tags Announcements
// @Produce json
// @Param announcementId path string true "Announcement ID"
// @Success 200 {object} models.ReadStatus
// @Router /announcements/read-status/{announcementId} [get]
func (h *AnnouncementHandler) ReadStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.announcements.ReadStatus(c.Param("announcementId")))
}

// Delete godoc
// @Summary Delete one announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if h.announcements.Delete(c.Param("id")) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement deleted"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Announcement not found"})
}

// ClearAll godoc
// @Summary Delete every announcement
// @Tags Announcements
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /announcements [delete]
func (h *AnnouncementHandler) ClearAll(c *gin.Context) {
	h.announcements.ClearAll()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All announcements cleared"})
}

// Stats godoc
// @Summary Read statistics per announcement
// @Tags Announcements
// @Produce json
// @Success 200 {object} models.AnnouncementStats
// @Router /announcements/stats [get]
func (h *AnnouncementHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.announcements.Stats())
}
