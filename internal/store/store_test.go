package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/domain"
)

func newTestCache(t *testing.T) *FeedCache {
	t.Helper()
	cache, err := NewFeedCache(t.TempDir(), "http://localhost:8000")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestVideoRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	_, found := cache.GetVideos("home")
	assert.False(t, found)

	videos := []*domain.Video{
		{ID: "v1", Title: "First", LikesCount: 3, Liked: true},
		{ID: "v2", Title: "Second"},
	}
	require.NoError(t, cache.SaveVideos("home", videos))

	got, found := cache.GetVideos("home")
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.True(t, got[0].Liked)
}

func TestScopedKeysAreIndependent(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.SaveVideos("home", []*domain.Video{{ID: "v1"}}))
	require.NoError(t, cache.SaveVideos("search:cats", []*domain.Video{{ID: "v2"}}))

	home, _ := cache.GetVideos("home")
	search, _ := cache.GetVideos("search:cats")
	assert.Equal(t, "v1", home[0].ID)
	assert.Equal(t, "v2", search[0].ID)
}

func TestHistoryClear(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.SaveHistory([]*domain.HistoryEntry{{Video: domain.Video{ID: "v1"}}}))
	_, found := cache.GetHistory()
	require.True(t, found)

	cache.ClearHistory()
	_, found = cache.GetHistory()
	assert.False(t, found)
}

func TestWipe(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.SaveVideos("home", []*domain.Video{{ID: "v1"}}))
	require.NoError(t, cache.SavePlaylists([]*domain.Playlist{{ID: "p1"}}))
	require.NoError(t, cache.SaveSubscriptions([]*domain.Channel{{ID: "c1"}}))

	cache.Wipe()

	_, found := cache.GetVideos("home")
	assert.False(t, found)
	_, found = cache.GetPlaylists()
	assert.False(t, found)
	_, found = cache.GetSubscriptions()
	assert.False(t, found)
}

func TestMemoryOnlyMode(t *testing.T) {
	cache, err := NewFeedCache("", "")
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.SaveVideos("home", []*domain.Video{{ID: "v1"}}))
	got, found := cache.GetVideos("home")
	require.True(t, found)
	assert.Equal(t, "v1", got[0].ID)
}
