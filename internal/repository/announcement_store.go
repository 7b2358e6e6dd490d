package repository

import (
	"strconv"
	"time"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
)

// AnnouncementStore holds live announcements in memory, newest first. It is
// deliberately not durable: a process restart clears the board.
//
// The store is not safe for concurrent use on its own; AnnouncementService
// serializes every call behind its mutex.
type AnnouncementStore struct {
	items  []models.Announcement
	window time.Duration
	lastID int64
}

// NewAnnouncementStore builds an empty store. window is the countdown display
// period stamped onto each new announcement.
func NewAnnouncementStore(window time.Duration) *AnnouncementStore {
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &AnnouncementStore{window: window}
}

// Create materializes a new announcement at the front of the list. Empty
// optional fields fall back to the documented defaults. IDs are millisecond
// timestamps, bumped when two creations land in the same millisecond so they
// stay strictly monotonic.
func (s *AnnouncementStore) Create(title, message, priority, from, category string) models.Announcement {
	if priority == "" {
		priority = models.AnnouncementDefaultPriority
	}
	if from == "" {
		from = models.AnnouncementDefaultFrom
	}
	if category == "" {
		category = models.AnnouncementDefaultCategory
	}

	ms := time.Now().UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms

	createdAt := time.UnixMilli(ms).UTC()
	ann := models.Announcement{
		ID:               strconv.FormatInt(ms, 10),
		Title:            title,
		Message:          message,
		CreatedAt:        createdAt,
		CountdownEndTime: createdAt.Add(s.window),
		Priority:         priority,
		From:             from,
		Category:         category,
	}

	s.items = append([]models.Announcement{ann}, s.items...)
	return ann
}

// List returns a copy of all announcements, most recent first.
func (s *AnnouncementStore) List() []models.Announcement {
	out := make([]models.Announcement, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the ids of all announcements, most recent first.
func (s *AnnouncementStore) IDs() []string {
	ids := make([]string, len(s.items))
	for i, ann := range s.items {
		ids[i] = ann.ID
	}
	return ids
}

// DeleteByID removes the matching announcement and reports whether it existed.
func (s *AnnouncementStore) DeleteByID(id string) bool {
	for i, ann := range s.items {
		if ann.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all announcements.
func (s *AnnouncementStore) Clear() {
	s.items = nil
}

// Len reports the number of live announcements.
func (s *AnnouncementStore) Len() int {
	return len(s.items)
}
