package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementStoreCreateDefaults(t *testing.T) {
	store := NewAnnouncementStore(10 * time.Minute)

	ann := store.Create("Exam schedule", "Finals start Monday", "", "", "")

	require.NotEmpty(t, ann.ID)
	assert.Equal(t, "normal", ann.Priority)
	assert.Equal(t, "School Director", ann.From)
	assert.Equal(t, "General", ann.Category)
	assert.Equal(t, ann.CreatedAt.Add(10*time.Minute), ann.CountdownEndTime)
	assert.False(t, ann.CreatedAt.IsZero())
}

func TestAnnouncementStoreCreateKeepsExplicitFields(t *testing.T) {
	store := NewAnnouncementStore(time.Minute)

	ann := store.Create("Water outage", "No water today", "urgent", "Facilities", "Maintenance")

	assert.Equal(t, "urgent", ann.Priority)
	assert.Equal(t, "Facilities", ann.From)
	assert.Equal(t, "Maintenance", ann.Category)
	assert.Equal(t, ann.CreatedAt.Add(time.Minute), ann.CountdownEndTime)
}

func TestAnnouncementStoreNewestFirst(t *testing.T) {
	store := NewAnnouncementStore(0)

	x := store.Create("X", "first", "", "", "")
	y := store.Create("Y", "second", "", "", "")

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, y.ID, list[0].ID)
	assert.Equal(t, x.ID, list[1].ID)
	assert.Equal(t, []string{y.ID, x.ID}, store.IDs())
}

func TestAnnouncementStoreIDsStrictlyMonotonic(t *testing.T) {
	store := NewAnnouncementStore(0)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ann := store.Create("T", "m", "", "", "")
		_, dup := seen[ann.ID]
		require.False(t, dup, "duplicate id %s", ann.ID)
		seen[ann.ID] = struct{}{}
	}
	assert.Equal(t, 50, store.Len())
}

func TestAnnouncementStoreListIsACopy(t *testing.T) {
	store := NewAnnouncementStore(0)
	store.Create("A", "b", "", "", "")

	list := store.List()
	list[0].Title = "mutated"

	assert.Equal(t, "A", store.List()[0].Title)
}

func TestAnnouncementStoreDeleteByID(t *testing.T) {
	store := NewAnnouncementStore(0)
	a := store.Create("A", "b", "", "", "")
	b := store.Create("B", "c", "", "", "")

	assert.True(t, store.DeleteByID(a.ID))
	assert.False(t, store.DeleteByID(a.ID))
	assert.False(t, store.DeleteByID("missing"))

	require.Equal(t, 1, store.Len())
	assert.Equal(t, b.ID, store.List()[0].ID)
}

func TestAnnouncementStoreClear(t *testing.T) {
	store := NewAnnouncementStore(0)
	store.Create("A", "b", "", "", "")
	store.Create("B", "c", "", "", "")

	store.Clear()

	assert.Zero(t, store.Len())
	assert.Empty(t, store.List())
}
