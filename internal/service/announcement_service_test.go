package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/realtime"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/repository"
)

type fakeConn struct {
	userID string
	closed bool
}

func (f *fakeConn) UserID() string      { return f.userID }
func (f *fakeConn) Deliver([]byte) bool { return true }
func (f *fakeConn) Close()              { f.closed = true }

type emittedEvent struct {
	event string
	data  interface{}
	conn  realtime.Connection
}

type fakeHub struct {
	conns      map[realtime.Connection]struct{}
	broadcasts []emittedEvent
	directs    []emittedEvent
}

func newFakeHub() *fakeHub {
	return &fakeHub{conns: make(map[realtime.Connection]struct{})}
}

func (h *fakeHub) Register(conn realtime.Connection)   { h.conns[conn] = struct{}{} }
func (h *fakeHub) Unregister(conn realtime.Connection) { delete(h.conns, conn) }
func (h *fakeHub) EmitToAll(event string, data interface{}) {
	h.broadcasts = append(h.broadcasts, emittedEvent{event: event, data: data})
}
func (h *fakeHub) EmitToOne(conn realtime.Connection, event string, data interface{}) {
	h.directs = append(h.directs, emittedEvent{event: event, data: data, conn: conn})
}
func (h *fakeHub) Count() int { return len(h.conns) }

func newTestService() (*AnnouncementService, *fakeHub) {
	hub := newFakeHub()
	store := repository.NewAnnouncementStore(10 * time.Minute)
	registry := repository.NewReadRegistry()
	return NewAnnouncementService(store, registry, hub, nil, nil), hub
}

func TestCreateValidatesBeforeMutating(t *testing.T) {
	svc, hub := newTestService()

	_, err := svc.Create(CreateAnnouncementRequest{Title: "", Message: "x"})
	require.Error(t, err)
	assert.Empty(t, svc.List())
	assert.Empty(t, hub.broadcasts)

	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)
	assert.NotEmpty(t, ann.ID)
	assert.Equal(t, "normal", ann.Priority)
	assert.Equal(t, "School Director", ann.From)
	assert.Equal(t, "General", ann.Category)
	assert.Equal(t, ann.CreatedAt.Add(10*time.Minute), ann.CountdownEndTime)

	require.Len(t, hub.broadcasts, 1)
	assert.Equal(t, models.EventNewAnnouncement, hub.broadcasts[0].event)
}

func TestListMostRecentFirst(t *testing.T) {
	svc, _ := newTestService()

	x, err := svc.Create(CreateAnnouncementRequest{Title: "X", Message: "m"})
	require.NoError(t, err)
	y, err := svc.Create(CreateAnnouncementRequest{Title: "Y", Message: "m"})
	require.NoError(t, err)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, y.ID, list[0].ID)
	assert.Equal(t, x.ID, list[1].ID)
}

func TestMarkReadChangesUnreadCountOnce(t *testing.T) {
	svc, hub := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.UnreadCount("u1"))

	changed, err := svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Zero(t, svc.UnreadCount("u1"))

	changed, err = svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, svc.UnreadCount("u1"))

	// One broadcast for the create, one for the state change; the idempotent
	// second call stayed silent.
	readEvents := 0
	for _, e := range hub.broadcasts {
		if e.event == models.EventAnnouncementRead {
			readEvents++
		}
	}
	assert.Equal(t, 1, readEvents)
}

func TestMarkReadRequiresUserID(t *testing.T) {
	svc, _ := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ann.ID, "")
	assert.Error(t, err)
}

func TestDeleteCascadesReadState(t *testing.T) {
	svc, hub := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)
	_, err = svc.MarkRead(ann.ID, "u2")
	require.NoError(t, err)

	assert.True(t, svc.Delete(ann.ID))
	assert.Empty(t, svc.ReadStatus(ann.ID).Users)
	assert.False(t, svc.Delete(ann.ID))

	deleted := hub.broadcasts[len(hub.broadcasts)-1]
	assert.Equal(t, models.EventAnnouncementDeleted, deleted.event)
	assert.Equal(t, ann.ID, deleted.data)
}

func TestMarkAllReadReplacesReadSet(t *testing.T) {
	svc, _ := newTestService()
	a, err := svc.Create(CreateAnnouncementRequest{Title: "a", Message: "m"})
	require.NoError(t, err)
	b, err := svc.Create(CreateAnnouncementRequest{Title: "b", Message: "m"})
	require.NoError(t, err)
	_, err = svc.Create(CreateAnnouncementRequest{Title: "c", Message: "m"})
	require.NoError(t, err)

	_, err = svc.MarkRead(a.ID, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllRead("u1"))

	assert.Zero(t, svc.UnreadCount("u1"))
	assert.Contains(t, svc.ReadStatus(b.ID).Users, "u1")
	assert.Error(t, svc.MarkAllRead(""))
}

func TestStatsPercentages(t *testing.T) {
	svc, _ := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)

	// Zero users: no division by zero.
	stats := svc.Stats()
	assert.Equal(t, 1, stats.TotalAnnouncements)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.ReadStatistics[ann.ID].ReadPercentage)

	// Two known users, one reader: 50 percent.
	_, err = svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)
	_ = svc.UnreadCount("u2")

	stats = svc.Stats()
	assert.Equal(t, 2, stats.TotalUsers)
	entry := stats.ReadStatistics[ann.ID]
	assert.Equal(t, "A", entry.Title)
	assert.Equal(t, 1, entry.ReadCount)
	assert.Equal(t, 50, entry.ReadPercentage)
}

func TestConnectSendsPerUserSnapshot(t *testing.T) {
	svc, hub := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)
	_, err = svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)

	reader := &fakeConn{userID: "u1"}
	svc.Connect(reader)

	fresh := &fakeConn{userID: "u2"}
	svc.Connect(fresh)

	require.Len(t, hub.directs, 2)

	first := hub.directs[0]
	assert.Same(t, reader, first.conn)
	assert.Equal(t, models.EventInitialAnnouncements, first.event)
	snapshot := first.data.([]models.AnnouncementWithStatus)
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].ReadByThisUser)

	second := hub.directs[1].data.([]models.AnnouncementWithStatus)
	require.Len(t, second, 1)
	assert.False(t, second[0].ReadByThisUser)

	assert.Equal(t, 2, svc.ConnectedClients())
	svc.Disconnect(fresh)
	assert.Equal(t, 1, svc.ConnectedClients())
}

func TestSocketMarkAsRead(t *testing.T) {
	svc, hub := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)

	conn := &fakeConn{userID: "u1"}
	svc.Connect(conn)

	svc.HandleMarkAsRead(conn, ann.ID)

	var readBroadcast *emittedEvent
	for i := range hub.broadcasts {
		if hub.broadcasts[i].event == models.EventAnnouncementRead {
			readBroadcast = &hub.broadcasts[i]
		}
	}
	require.NotNil(t, readBroadcast)
	payload := readBroadcast.data.(models.AnnouncementReadEvent)
	assert.Equal(t, ann.ID, payload.AnnouncementID)
	assert.Equal(t, "u1", payload.UserID)

	last := hub.directs[len(hub.directs)-1]
	assert.Equal(t, models.EventUpdateUnreadCount, last.event)
	assert.Equal(t, 1, last.data)

	// Repeat acknowledgement changes nothing and emits nothing new.
	before := len(hub.broadcasts) + len(hub.directs)
	svc.HandleMarkAsRead(conn, ann.ID)
	assert.Equal(t, before, len(hub.broadcasts)+len(hub.directs))
}

func TestClearAllResetsBoardAndRegistry(t *testing.T) {
	svc, hub := newTestService()
	ann, err := svc.Create(CreateAnnouncementRequest{Title: "A", Message: "B"})
	require.NoError(t, err)
	_, err = svc.MarkRead(ann.ID, "u1")
	require.NoError(t, err)

	svc.ClearAll()

	assert.Empty(t, svc.List())
	assert.Zero(t, svc.KnownUserCount())
	cleared := hub.broadcasts[len(hub.broadcasts)-1]
	assert.Equal(t, models.EventAnnouncementsCleared, cleared.event)
}
