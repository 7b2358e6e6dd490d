package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/realtime"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
)

// LiveHandler upgrades dashboard sessions onto the realtime announcement
// channel. Identity is the client-supplied userId query parameter; swapping
// in authenticated identity later only touches this handler.
type LiveHandler struct {
	announcements *service.AnnouncementService
	upgrader      websocket.Upgrader
	sendBuffer    int
	logger        *zap.Logger
}

// NewLiveHandler constructs handler.
func NewLiveHandler(announcements *service.AnnouncementService, allowedOrigins []string, sendBuffer int, logger *zap.Logger) *LiveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &LiveHandler{
		announcements: announcements,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// Serve handles GET /ws?userId=... for the announcement channel.
func (h *LiveHandler) Serve(c *gin.Context) {
	userID := c.Query("userId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(conn, userID, h.sendBuffer, h.logger)
	h.announcements.Connect(client)

	go client.WritePump()
	go client.ReadPump(models.EventMarkAsRead,
		func(announcementID string) {
			h.announcements.HandleMarkAsRead(client, announcementID)
		},
		func() {
			h.announcements.Disconnect(client)
		},
	)
}
