package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Frame is the wire envelope for every realtime message, in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Connection is one live realtime session. Implemented by Client; tests use
// in-memory fakes.
type Connection interface {
	// UserID returns the identity asserted at connect time; may be empty.
	UserID() string
	// Deliver enqueues a raw frame. Returns false when the session buffer is
	// full, which the hub treats as a dead client.
	Deliver(payload []byte) bool
	// Close tears the session down. Safe to call more than once.
	Close()
}

// Hub maintains the set of live connections and fans events out to them.
// Delivery is at most once: a frame that cannot be buffered for a connection
// is dropped along with the connection, and never errors back to the emitter.
type Hub struct {
	mu     sync.Mutex
	conns  map[Connection]struct{}
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:  make(map[Connection]struct{}),
		logger: logger,
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn Connection) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Info("client connected", zap.String("user_id", conn.UserID()), zap.Int("total_clients", total))
}

// Unregister removes a connection and closes it. Calling it twice is harmless.
func (h *Hub) Unregister(conn Connection) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
	}
	total := len(h.conns)
	h.mu.Unlock()
	if ok {
		conn.Close()
		h.logger.Info("client disconnected", zap.String("user_id", conn.UserID()), zap.Int("total_clients", total))
	}
}

// EmitToAll delivers the event to every registered connection. Connections
// that cannot keep up are dropped so one slow client never stalls the rest.
func (h *Hub) EmitToAll(event string, data interface{}) {
	payload, err := encodeFrame(event, data)
	if err != nil {
		h.logger.Error("encode broadcast frame", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	var dead []Connection
	for conn := range h.conns {
		if !conn.Deliver(payload) {
			delete(h.conns, conn)
			dead = append(dead, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range dead {
		conn.Close()
		h.logger.Warn("dropping slow client", zap.String("user_id", conn.UserID()))
	}
}

// EmitToOne delivers the event to a single connection only.
func (h *Hub) EmitToOne(conn Connection, event string, data interface{}) {
	payload, err := encodeFrame(event, data)
	if err != nil {
		h.logger.Error("encode frame", zap.String("event", event), zap.Error(err))
		return
	}
	if !conn.Deliver(payload) {
		h.Unregister(conn)
	}
}

// Count reports the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func encodeFrame(event string, data interface{}) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
