package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/api"
	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/log"
	"github.com/mvickers/tubetui/internal/store"
)

func newSessionService(t *testing.T, handler http.HandlerFunc) (*SessionService, *store.FeedCache) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "tok", log.NullLogger())
	cache, err := store.NewFeedCache("", "")
	require.NoError(t, err)
	return NewSessionService(client, cache, log.NullLogger()), cache
}

func TestLoginBroadcasts(t *testing.T) {
	svc, _ := newSessionService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"statusCode": 200,
			"data": {"user":{"_id":"u1","username":"alice"},"accessToken":"tok-1"},
			"message": "User logged in successfully",
			"success": true
		}`)
	})

	events, cancel := svc.Subscribe()
	defer cancel()

	user, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Handle)
	assert.Equal(t, "alice", svc.CurrentUser().Handle)

	ev := <-events
	assert.True(t, ev.LoggedIn)
	require.NotNil(t, ev.User)
	assert.Equal(t, "u1", ev.User.ID)
}

func TestRevalidateExpiredToken(t *testing.T) {
	svc, cache := newSessionService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"statusCode":401,"message":"jwt expired","success":false}`)
	})

	// Pretend a previous session cached a feed
	require.NoError(t, cache.SaveVideos("home", []*domain.Video{{ID: "v1"}}))

	events, cancel := svc.Subscribe()
	defer cancel()

	err := svc.Revalidate(context.Background())
	require.ErrorIs(t, err, domain.ErrSessionExpired)

	ev := <-events
	assert.False(t, ev.LoggedIn, "subscribers are told to drop user-scoped state")
	assert.Nil(t, svc.CurrentUser())

	_, found := cache.GetVideos("home")
	assert.False(t, found, "cached feeds are wiped on expiry")
}

func TestHandleError(t *testing.T) {
	svc, _ := newSessionService(t, func(w http.ResponseWriter, r *http.Request) {})

	assert.True(t, svc.HandleError(domain.ErrSessionExpired))
	assert.True(t, svc.HandleError(fmt.Errorf("loading feed: %w", domain.ErrSessionExpired)),
		"wrapped expiry errors still route to the expiry path")
	assert.False(t, svc.HandleError(domain.ErrServerOffline))
	assert.False(t, svc.HandleError(nil))
}

func TestExpireIsIdempotent(t *testing.T) {
	svc, _ := newSessionService(t, func(w http.ResponseWriter, r *http.Request) {})

	svc.Expire()
	svc.Expire()
	assert.Nil(t, svc.CurrentUser())
}
