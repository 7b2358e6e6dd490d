package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxInboundSize = 4096
)

// Client bridges one websocket to the hub: Deliver enqueues onto a buffered
// channel drained by WritePump, and ReadPump turns inbound frames into
// callbacks.
type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	logger *zap.Logger

	closeOnce sync.Once
}

var _ Connection = (*Client)(nil)

// NewClient wraps an upgraded websocket connection.
func NewClient(conn *websocket.Conn, userID string, sendBuffer int, logger *zap.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// UserID returns the identity asserted in the connect query string.
func (c *Client) UserID() string {
	return c.userID
}

// Deliver enqueues a frame for the write pump. Returns false when the buffer
// is full or the client is already closed.
func (c *Client) Deliver(payload []byte) bool {
	defer func() {
		// send may be closed concurrently with a broadcast.
		_ = recover()
	}()
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close shuts the outbound channel, which terminates WritePump.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// WritePump drains the send channel onto the socket and keeps the connection
// alive with pings. Must run in its own goroutine, one per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// MarkAsReadPayload is the inbound acknowledgement body.
type MarkAsReadPayload struct {
	AnnouncementID string `json:"announcementId"`
}

// ReadPump consumes inbound frames until the socket drops, dispatching
// mark-as-read acknowledgements to onMarkAsRead. onClose runs exactly once on
// the way out. Must run in its own goroutine, one per client.
func (c *Client) ReadPump(markEvent string, onMarkAsRead func(announcementID string), onClose func()) {
	defer onClose()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Debug("malformed inbound frame", zap.String("user_id", c.userID), zap.Error(err))
			continue
		}
		if frame.Event != markEvent {
			continue
		}

		var payload MarkAsReadPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.AnnouncementID == "" {
			continue
		}
		onMarkAsRead(payload.AnnouncementID)
	}
}
