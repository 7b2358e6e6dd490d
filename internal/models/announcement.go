package models

import "time"

// Announcement defaults applied when the caller omits the optional fields.
const (
	AnnouncementDefaultPriority = "normal"
	AnnouncementDefaultFrom     = "School Director"
	AnnouncementDefaultCategory = "General"
)

// Realtime event names shared between the hub and the dashboard clients.
const (
	EventInitialAnnouncements = "initial-announcements"
	EventNewAnnouncement      = "new-announcement"
	EventAnnouncementRead     = "announcement-read"
	EventAnnouncementDeleted  = "announcement-deleted"
	EventAnnouncementsCleared = "announcements-cleared"
	EventUpdateUnreadCount    = "update-unread-count"
	EventMarkAsRead           = "mark-as-read"
)

// Announcement is a live notice held only in process memory. It is created
// once and never edited; a restart drops all announcements by design.
type Announcement struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"createdAt"`
	CountdownEndTime time.Time `json:"countdownEndTime"`
	Priority         string    `json:"priority"`
	From             string    `json:"from"`
	Category         string    `json:"category"`
}

// AnnouncementWithStatus annotates an announcement with the read flag of the
// user receiving the connect-time snapshot.
type AnnouncementWithStatus struct {
	Announcement
	ReadByThisUser bool `json:"readByThisUser"`
}

// AnnouncementReadEvent is broadcast when a user newly marks an announcement.
type AnnouncementReadEvent struct {
	AnnouncementID string `json:"announcementId"`
	UserID         string `json:"userId"`
}

// ReadStatus reports which users acknowledged a single announcement.
type ReadStatus struct {
	AnnouncementID string   `json:"announcementId"`
	TotalRead      int      `json:"totalRead"`
	Users          []string `json:"users"`
}

// ReadStatistic is the per-announcement entry of the stats endpoint.
type ReadStatistic struct {
	Title          string `json:"title"`
	ReadCount      int    `json:"readCount"`
	TotalUsers     int    `json:"totalUsers"`
	ReadPercentage int    `json:"readPercentage"`
}

// AnnouncementStats aggregates read statistics across all announcements.
type AnnouncementStats struct {
	TotalAnnouncements int                      `json:"totalAnnouncements"`
	TotalUsers         int                      `json:"totalUsers"`
	ReadStatistics     map[string]ReadStatistic `json:"readStatistics"`
}
