package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memConn struct {
	userID   string
	frames   [][]byte
	rejected bool
	closed   int
}

func (m *memConn) UserID() string { return m.userID }
func (m *memConn) Deliver(payload []byte) bool {
	if m.rejected {
		return false
	}
	m.frames = append(m.frames, payload)
	return true
}
func (m *memConn) Close() { m.closed++ }

func (m *memConn) lastFrame(t *testing.T) Frame {
	t.Helper()
	require.NotEmpty(t, m.frames)
	var frame Frame
	require.NoError(t, json.Unmarshal(m.frames[len(m.frames)-1], &frame))
	return frame
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	a := &memConn{userID: "a"}
	b := &memConn{userID: "b"}
	hub.Register(a)
	hub.Register(b)

	hub.EmitToAll("new-announcement", map[string]string{"id": "1"})

	for _, conn := range []*memConn{a, b} {
		frame := conn.lastFrame(t)
		assert.Equal(t, "new-announcement", frame.Event)
		assert.JSONEq(t, `{"id":"1"}`, string(frame.Data))
	}
}

func TestHubDropsSlowClientOnBroadcast(t *testing.T) {
	hub := NewHub(nil)
	healthy := &memConn{userID: "ok"}
	slow := &memConn{userID: "slow", rejected: true}
	hub.Register(healthy)
	hub.Register(slow)

	hub.EmitToAll("announcements-cleared", nil)

	assert.Equal(t, 1, hub.Count())
	assert.Equal(t, 1, slow.closed)
	assert.Zero(t, healthy.closed)
}

func TestHubEmitToOne(t *testing.T) {
	hub := NewHub(nil)
	a := &memConn{userID: "a"}
	b := &memConn{userID: "b"}
	hub.Register(a)
	hub.Register(b)

	hub.EmitToOne(a, "update-unread-count", 3)

	frame := a.lastFrame(t)
	assert.Equal(t, "update-unread-count", frame.Event)
	assert.Equal(t, "3", string(frame.Data))
	assert.Empty(t, b.frames)
}

func TestHubEmitToOneDropsDeadConnection(t *testing.T) {
	hub := NewHub(nil)
	dead := &memConn{userID: "dead", rejected: true}
	hub.Register(dead)

	hub.EmitToOne(dead, "update-unread-count", 1)

	assert.Zero(t, hub.Count())
	assert.Equal(t, 1, dead.closed)
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := NewHub(nil)
	conn := &memConn{userID: "a"}
	hub.Register(conn)

	hub.Unregister(conn)
	hub.Unregister(conn)

	assert.Zero(t, hub.Count())
	assert.Equal(t, 1, conn.closed)
}

func TestHubFrameWithoutData(t *testing.T) {
	hub := NewHub(nil)
	conn := &memConn{userID: "a"}
	hub.Register(conn)

	hub.EmitToAll("announcements-cleared", nil)

	frame := conn.lastFrame(t)
	assert.Equal(t, "announcements-cleared", frame.Event)
	assert.Empty(t, frame.Data)
}
