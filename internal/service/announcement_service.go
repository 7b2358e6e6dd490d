package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/realtime"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/repository"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

type announcementBroadcaster interface {
	Register(conn realtime.Connection)
	Unregister(conn realtime.Connection)
	EmitToAll(event string, data interface{})
	EmitToOne(conn realtime.Connection, event string, data interface{})
	Count() int
}

// AnnouncementService owns the live announcement board: the in-memory store,
// the per-user read registry and the realtime fan-out. One mutex serializes
// every mutation, which keeps the snapshot-then-subscribe handshake atomic and
// guarantees all clients observe mutations in a single global order.
type AnnouncementService struct {
	mu       sync.Mutex
	store    *repository.AnnouncementStore
	registry *repository.ReadRegistry
	hub      announcementBroadcaster

	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService wires the store, registry and hub together.
func NewAnnouncementService(store *repository.AnnouncementStore, registry *repository.ReadRegistry, hub announcementBroadcaster, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		store:     store,
		registry:  registry,
		hub:       hub,
		validator: validate,
		logger:    logger,
	}
}

// CreateAnnouncementRequest describes the create payload. Priority, from and
// category stay freeform; only presence of title and message is enforced.
type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority"`
	From     string `json:"from"`
	Category string `json:"category"`
}

// Create validates, stores and broadcasts a new announcement. On validation
// failure nothing is stored and nothing is broadcast.
func (s *AnnouncementService) Create(req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and message are required")
	}

	s.mu.Lock()
	ann := s.store.Create(req.Title, req.Message, req.Priority, req.From, req.Category)
	s.hub.EmitToAll(models.EventNewAnnouncement, ann)
	s.mu.Unlock()

	s.logger.Info("announcement created",
		zap.String("id", ann.ID),
		zap.String("title", ann.Title),
		zap.String("priority", ann.Priority),
	)
	return &ann, nil
}

// List returns all announcements, most recent first.
func (s *AnnouncementService) List() []models.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// UnreadCount reports how many announcements the user has not acknowledged.
// The id set is re-derived from the live store on each call; the board is
// small enough that a denormalized counter is not worth its invalidation
// paths.
func (s *AnnouncementService) UnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.UnreadCount(userID, s.store.IDs())
}

// MarkRead records a single acknowledgement. When the state newly changed,
// every connected client is told so dashboards can update their counters.
func (s *AnnouncementService) MarkRead(announcementID, userID string) (bool, error) {
	if userID == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "user ID is required")
	}

	s.mu.Lock()
	changed := s.registry.MarkRead(userID, announcementID)
	if changed {
		s.hub.EmitToAll(models.EventAnnouncementRead, models.AnnouncementReadEvent{
			AnnouncementID: announcementID,
			UserID:         userID,
		})
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("announcement marked read", zap.String("id", announcementID), zap.String("user_id", userID))
	}
	return changed, nil
}

// MarkAllRead replaces the user's read set with every currently known id.
func (s *AnnouncementService) MarkAllRead(userID string) error {
	if userID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user ID is required")
	}

	s.mu.Lock()
	s.registry.MarkAllRead(userID, s.store.IDs())
	s.mu.Unlock()

	s.logger.Info("all announcements marked read", zap.String("user_id", userID))
	return nil
}

// ReadStatus reports which users acknowledged one announcement.
func (s *AnnouncementService) ReadStatus(announcementID string) models.ReadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.registry.ReadersOf(announcementID)
	return models.ReadStatus{
		AnnouncementID: announcementID,
		TotalRead:      len(users),
		Users:          users,
	}
}

// Delete removes an announcement, scrubs it from every read set and tells all
// clients to drop it. Returns false when the id was unknown.
func (s *AnnouncementService) Delete(id string) bool {
	s.mu.Lock()
	deleted := s.store.DeleteByID(id)
	if deleted {
		s.registry.RemoveAnnouncement(id)
		s.hub.EmitToAll(models.EventAnnouncementDeleted, id)
	}
	s.mu.Unlock()

	if deleted {
		s.logger.Info("announcement deleted", zap.String("id", id))
	}
	return deleted
}

// ClearAll wipes the board and all read state.
func (s *AnnouncementService) ClearAll() {
	s.mu.Lock()
	s.store.Clear()
	s.registry.ClearAll()
	s.hub.EmitToAll(models.EventAnnouncementsCleared, nil)
	s.mu.Unlock()

	s.logger.Info("all announcements cleared")
}

// Stats aggregates per-announcement read counts and percentages. With no
// known users every percentage is zero rather than a division by zero.
func (s *AnnouncementService) Stats() models.AnnouncementStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalUsers := s.registry.Size()
	stats := models.AnnouncementStats{
		TotalAnnouncements: s.store.Len(),
		TotalUsers:         totalUsers,
		ReadStatistics:     make(map[string]models.ReadStatistic),
	}

	for _, ann := range s.store.List() {
		readCount := len(s.registry.ReadersOf(ann.ID))
		percentage := 0
		if totalUsers > 0 {
			percentage = int(float64(readCount)/float64(totalUsers)*100 + 0.5)
		}
		stats.ReadStatistics[ann.ID] = models.ReadStatistic{
			Title:          ann.Title,
			ReadCount:      readCount,
			TotalUsers:     totalUsers,
			ReadPercentage: percentage,
		}
	}
	return stats
}

// Connect runs the snapshot-then-subscribe handshake for a new session: the
// user's registry entry is materialized, the connection joins the broadcast
// set and receives the full board annotated with its own read flags. All of
// it happens under the service lock, so no creation can slip between the
// snapshot and the subscription.
func (s *AnnouncementService) Connect(conn realtime.Connection) {
	s.mu.Lock()
	userID := conn.UserID()
	s.registry.Ensure(userID)

	anns := s.store.List()
	snapshot := make([]models.AnnouncementWithStatus, len(anns))
	for i, ann := range anns {
		snapshot[i] = models.AnnouncementWithStatus{
			Announcement:   ann,
			ReadByThisUser: s.registry.HasRead(userID, ann.ID),
		}
	}

	s.hub.Register(conn)
	s.hub.EmitToOne(conn, models.EventInitialAnnouncements, snapshot)
	s.mu.Unlock()
}

// Disconnect drops a session. Safe to call for a session that was already
// dropped by the hub.
func (s *AnnouncementService) Disconnect(conn realtime.Connection) {
	s.hub.Unregister(conn)
}

// HandleMarkAsRead services an acknowledgement arriving over the socket. On
// top of the regular MarkRead broadcast the originating session gets its new
// private unread counter.
func (s *AnnouncementService) HandleMarkAsRead(conn realtime.Connection, announcementID string) {
	userID := conn.UserID()
	if userID == "" {
		return
	}

	s.mu.Lock()
	changed := s.registry.MarkRead(userID, announcementID)
	if changed {
		s.hub.EmitToAll(models.EventAnnouncementRead, models.AnnouncementReadEvent{
			AnnouncementID: announcementID,
			UserID:         userID,
		})
		s.hub.EmitToOne(conn, models.EventUpdateUnreadCount, s.registry.ReadSetSize(userID))
	}
	s.mu.Unlock()
}

// AnnouncementCount reports the number of live announcements.
func (s *AnnouncementService) AnnouncementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// KnownUserCount reports how many distinct users the registry has seen.
func (s *AnnouncementService) KnownUserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Size()
}

// ConnectedClients reports live realtime sessions.
func (s *AnnouncementService) ConnectedClients() int {
	return s.hub.Count()
}
