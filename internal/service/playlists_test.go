package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/api"
	"github.com/mvickers/tubetui/internal/log"
)

type wirePlaylist struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	TotalVideos int    `json:"totalVideos"`
	UpdatedAt   string `json:"updatedAt"`
}

// playlistBackend serves a mutable playlist list; AddVideo bumps the target
// playlist's updatedAt so the re-sort is observable.
type playlistBackend struct {
	mu        sync.Mutex
	playlists []wirePlaylist
}

func (b *playlistBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.URL.Path == "/api/v1/playlist/user":
			resp := map[string]any{
				"statusCode": 200,
				"data": map[string]any{
					"docs":        b.playlists,
					"page":        1,
					"totalPages":  1,
					"hasNextPage": false,
				},
				"success": true,
			}
			json.NewEncoder(w).Encode(resp)

		case r.Method == http.MethodPatch:
			// /playlist/add/:videoId/:playlistId bumps recency
			id := r.URL.Path[len(r.URL.Path)-2:]
			for i := range b.playlists {
				if b.playlists[i].ID == id {
					b.playlists[i].UpdatedAt = "2026-08-25T12:00:00Z"
					b.playlists[i].TotalVideos++
				}
			}
			w.Write([]byte(`{"statusCode":200,"data":null,"message":"Video added to playlist","success":true}`))

		default:
			w.Write([]byte(`{"statusCode":200,"data":null,"message":"ok","success":true}`))
		}
	}
}

func TestPlaylistsResortOnMutation(t *testing.T) {
	backend := &playlistBackend{playlists: []wirePlaylist{
		{ID: "p1", Name: "Watch Later", TotalVideos: 3, UpdatedAt: "2026-08-20T10:00:00Z"},
		{ID: "p2", Name: "Music", TotalVideos: 8, UpdatedAt: "2026-08-19T10:00:00Z"},
		{ID: "p3", Name: "Talks", TotalVideos: 1, UpdatedAt: "2026-08-18T10:00:00Z"},
	}}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "tok", log.NullLogger())
	svc := NewPlaylistService(client, nil, 20, log.NullLogger())

	require.NoError(t, svc.Refresh(context.Background()))
	snap := svc.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "p1", snap.Items[0].ID, "most recently updated first")

	// Adding a video to the oldest playlist moves it to the top
	require.NoError(t, svc.AddVideo(context.Background(), "p3", "v1"))

	snap = svc.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "p3", snap.Items[0].ID,
		"mutated playlist re-sorts to the top instead of keeping its slot")
	assert.Equal(t, 2, snap.Items[0].ItemCount)
}
