package repository

import "sort"

// ReadRegistry maps a user id to the set of announcement ids that user has
// acknowledged. A user id that was never seen is equivalent to an empty set,
// but any contact (connect, read, query) materializes an entry so the user
// counts toward statistics denominators.
//
// Like AnnouncementStore, the registry relies on AnnouncementService for
// serialization.
type ReadRegistry struct {
	read map[string]map[string]struct{}
}

// NewReadRegistry builds an empty registry.
func NewReadRegistry() *ReadRegistry {
	return &ReadRegistry{read: make(map[string]map[string]struct{})}
}

// Ensure materializes an empty entry for the user. Idempotent; ignores the
// empty user id used by anonymous realtime sessions.
func (r *ReadRegistry) Ensure(userID string) {
	if userID == "" {
		return
	}
	if _, ok := r.read[userID]; !ok {
		r.read[userID] = make(map[string]struct{})
	}
}

// MarkRead adds the announcement to the user's read set. Returns true when
// this call changed state, false when it was already read or userID is empty.
func (r *ReadRegistry) MarkRead(userID, announcementID string) bool {
	if userID == "" {
		return false
	}
	r.Ensure(userID)
	if _, seen := r.read[userID][announcementID]; seen {
		return false
	}
	r.read[userID][announcementID] = struct{}{}
	return true
}

// MarkAllRead replaces the user's read set with exactly the given ids. This is
// a full catch-up, not a union: ids of since-deleted announcements drop out.
func (r *ReadRegistry) MarkAllRead(userID string, ids []string) {
	if userID == "" {
		return
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.read[userID] = set
}

// HasRead reports whether the user acknowledged the announcement.
func (r *ReadRegistry) HasRead(userID, announcementID string) bool {
	set, ok := r.read[userID]
	if !ok {
		return false
	}
	_, seen := set[announcementID]
	return seen
}

// UnreadCount counts ids in allIDs missing from the user's read set. The
// user's entry is materialized first so fresh users count as "read nothing".
func (r *ReadRegistry) UnreadCount(userID string, allIDs []string) int {
	r.Ensure(userID)
	set := r.read[userID]
	unread := 0
	for _, id := range allIDs {
		if _, seen := set[id]; !seen {
			unread++
		}
	}
	return unread
}

// ReadSetSize reports how many announcements the user has acknowledged.
func (r *ReadRegistry) ReadSetSize(userID string) int {
	return len(r.read[userID])
}

// RemoveAnnouncement drops the id from every user's read set. Called when an
// announcement is deleted so stale acknowledgements cannot linger.
func (r *ReadRegistry) RemoveAnnouncement(id string) {
	for _, set := range r.read {
		delete(set, id)
	}
}

// ReadersOf lists the users whose set contains the announcement, sorted for
// deterministic output.
func (r *ReadRegistry) ReadersOf(id string) []string {
	users := make([]string, 0)
	for userID, set := range r.read {
		if _, seen := set[id]; seen {
			users = append(users, userID)
		}
	}
	sort.Strings(users)
	return users
}

// ClearAll wipes the entire registry.
func (r *ReadRegistry) ClearAll() {
	r.read = make(map[string]map[string]struct{})
}

// Size reports the number of distinct known users.
func (r *ReadRegistry) Size() int {
	return len(r.read)
}
