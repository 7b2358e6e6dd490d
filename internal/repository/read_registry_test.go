package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadRegistryMarkReadIdempotent(t *testing.T) {
	registry := NewReadRegistry()

	assert.True(t, registry.MarkRead("u1", "a1"))
	assert.False(t, registry.MarkRead("u1", "a1"))
	assert.True(t, registry.HasRead("u1", "a1"))
	assert.Equal(t, 1, registry.ReadSetSize("u1"))
}

func TestReadRegistryEmptyUserIgnored(t *testing.T) {
	registry := NewReadRegistry()

	registry.Ensure("")
	assert.False(t, registry.MarkRead("", "a1"))
	assert.Zero(t, registry.Size())
}

func TestReadRegistryUnreadCount(t *testing.T) {
	registry := NewReadRegistry()
	all := []string{"a1", "a2", "a3"}

	assert.Equal(t, 3, registry.UnreadCount("u1", all))
	// Querying materialized the user.
	assert.Equal(t, 1, registry.Size())

	registry.MarkRead("u1", "a2")
	assert.Equal(t, 2, registry.UnreadCount("u1", all))

	registry.MarkRead("u1", "a1")
	registry.MarkRead("u1", "a3")
	assert.Zero(t, registry.UnreadCount("u1", all))
}

func TestReadRegistryMarkAllReadIsReplacement(t *testing.T) {
	registry := NewReadRegistry()
	registry.MarkRead("u1", "stale")

	registry.MarkAllRead("u1", []string{"a", "b", "c"})

	assert.Zero(t, registry.UnreadCount("u1", []string{"a", "b", "c"}))
	assert.False(t, registry.HasRead("u1", "stale"))
	assert.Equal(t, []string{"u1"}, registry.ReadersOf("b"))
}

func TestReadRegistryRemoveAnnouncementCascades(t *testing.T) {
	registry := NewReadRegistry()
	registry.MarkRead("u1", "a1")
	registry.MarkRead("u2", "a1")
	registry.MarkRead("u2", "a2")

	registry.RemoveAnnouncement("a1")

	assert.Empty(t, registry.ReadersOf("a1"))
	assert.False(t, registry.HasRead("u1", "a1"))
	assert.False(t, registry.HasRead("u2", "a1"))
	assert.True(t, registry.HasRead("u2", "a2"))
}

func TestReadRegistryReadersOfSorted(t *testing.T) {
	registry := NewReadRegistry()
	registry.MarkRead("zoe", "a1")
	registry.MarkRead("amy", "a1")
	registry.MarkRead("mia", "a1")

	assert.Equal(t, []string{"amy", "mia", "zoe"}, registry.ReadersOf("a1"))
}

func TestReadRegistryClearAll(t *testing.T) {
	registry := NewReadRegistry()
	registry.MarkRead("u1", "a1")
	registry.MarkRead("u2", "a2")

	registry.ClearAll()

	assert.Zero(t, registry.Size())
	assert.Empty(t, registry.ReadersOf("a1"))
}
