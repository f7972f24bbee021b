package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/api"
	"github.com/mvickers/tubetui/internal/config"
	"github.com/mvickers/tubetui/internal/log"
	"github.com/mvickers/tubetui/internal/search"
	"github.com/mvickers/tubetui/internal/service"
	"github.com/mvickers/tubetui/internal/store"
)

// requestLog records every request the model's commands issue, so tests can
// assert on the exact backend traffic a key press produces.
type requestLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *requestLog) record(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, r.Method+" "+r.URL.RequestURI())
}

func (l *requestLog) has(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}

func listEnvelope(docs any) map[string]any {
	return map[string]any{
		"statusCode": 200,
		"data": map[string]any{
			"docs":       docs,
			"page":       1,
			"totalPages": 1,
		},
		"message": "fetched",
		"success": true,
	}
}

func backendRespond(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/videos":
		writeJSON(w, listEnvelope([]map[string]any{
			{"_id": "v1", "title": "First video"},
			{"_id": "v2", "title": "Second video"},
		}))

	case r.URL.Path == "/api/v1/playlist/user":
		writeJSON(w, listEnvelope([]map[string]any{
			{"_id": "p1", "name": "Watch later"},
			{"_id": "p2", "name": "Music"},
		}))

	case strings.HasPrefix(r.URL.Path, "/api/v1/playlist/add/"):
		writeJSON(w, map[string]any{
			"statusCode": 200, "data": nil,
			"message": "Video added to playlist", "success": true,
		})

	case r.URL.Path == "/api/v1/subscriptions/u":
		writeJSON(w, listEnvelope([]map[string]any{
			{"_id": "c1", "username": "mkbhd", "fullName": "Marques"},
			{"_id": "c2", "username": "veritasium", "fullName": "Derek"},
			{"_id": "c3", "username": "kurzgesagt", "fullName": "In a Nutshell"},
		}))

	case r.URL.Path == "/api/v1/posts":
		writeJSON(w, listEnvelope([]map[string]any{
			{"_id": "po1", "content": "hello world"},
		}))

	case strings.HasPrefix(r.URL.Path, "/api/v1/comments/c/"):
		writeJSON(w, map[string]any{
			"statusCode": 200,
			"data": map[string]any{
				"_id": "cm1", "content": "hello there", "isOwner": true,
			},
			"message": "Comment updated", "success": true,
		})

	case strings.HasPrefix(r.URL.Path, "/api/v1/comments/"):
		writeJSON(w, listEnvelope([]map[string]any{
			{"_id": "cm1", "content": "hello", "isOwner": true},
			{"_id": "cm2", "content": "from someone else", "isOwner": false},
		}))

	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"statusCode":404,"message":"not found","success":false}`)
	}
}

func newTestModel(t *testing.T) (Model, *requestLog) {
	t.Helper()

	reqs := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs.record(r)
		backendRespond(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "tok", log.NullLogger())
	cache, err := store.NewFeedCache("", "")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	svc := Services{
		Session:   service.NewSessionService(client, cache, log.NullLogger()),
		Videos:    service.NewVideoFeedService(client, cache, 10, log.NullLogger()),
		Watch:     service.NewWatchService(client, client, 10, log.NullLogger()),
		Comments:  service.NewCommentService(client, 10, log.NullLogger()),
		Playlists: service.NewPlaylistService(client, cache, 10, log.NullLogger()),
		History:   service.NewHistoryService(client, cache, 10, log.NullLogger()),
		Posts:     service.NewPostService(client, cache, 10, log.NullLogger()),
		Subs:      service.NewSubscriptionService(client, cache, 10, log.NullLogger()),
		Search:    search.NewService(log.NullLogger()),
	}

	m := NewModel(svc, config.DefaultConfig(), true)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(Model), reqs
}

func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func pressRune(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func pressKey(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: k})
}

// loadFeed runs a feed operation directly and plays its completion message
// through the model, the way the Bubble Tea runtime would.
func loadFeed(t *testing.T, m Model, v View, op func(ctx context.Context) error) Model {
	t.Helper()
	require.NoError(t, op(context.Background()))
	m2, _ := updateModel(t, m, FeedLoadedMsg{View: v})
	return m2
}

func TestAddVideoToPlaylistViaPicker(t *testing.T) {
	m, reqs := newTestModel(t)
	m = loadFeed(t, m, ViewHome, m.Svc.Videos.LoadNext)
	m = loadFeed(t, m, ViewPlaylists, m.Svc.Playlists.LoadNext)

	m, cmd := pressRune(t, m, 'a')
	assert.True(t, m.PickingPlaylist)
	assert.Nil(t, cmd, "playlists already loaded, nothing to fetch")
	assert.Equal(t, "v1", m.PickVideoID)

	m, _ = pressRune(t, m, 'j')
	assert.Equal(t, 1, m.PickIndex)

	m, cmd = pressKey(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.False(t, m.PickingPlaylist)

	msg := cmd()
	added, ok := msg.(VideoAddedToPlaylistMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "p2", added.PlaylistID)
	assert.Equal(t, "v1", added.VideoID)
	assert.True(t, reqs.has("PATCH /api/v1/playlist/add/v1/p2"))

	m, _ = updateModel(t, m, added)
	assert.Equal(t, "Added to playlist", m.StatusMsg)
}

func TestPlaylistPickerLoadsPlaylistsOnDemand(t *testing.T) {
	m, _ := newTestModel(t)
	m = loadFeed(t, m, ViewHome, m.Svc.Videos.LoadNext)

	// The user never visited the Playlists tab, so the picker has to fetch
	m, cmd := pressRune(t, m, 'a')
	assert.True(t, m.PickingPlaylist)
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(FeedLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, ViewPlaylists, loaded.View)
	assert.Len(t, m.Svc.Playlists.Snapshot().Items, 2)
}

func TestPlaylistPickerEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t)
	m = loadFeed(t, m, ViewHome, m.Svc.Videos.LoadNext)
	m = loadFeed(t, m, ViewPlaylists, m.Svc.Playlists.LoadNext)

	m, _ = pressRune(t, m, 'a')
	require.True(t, m.PickingPlaylist)

	m, cmd := pressKey(t, m, tea.KeyEsc)
	assert.False(t, m.PickingPlaylist)
	assert.Empty(t, m.PickVideoID)
	assert.Nil(t, cmd)
}

func TestSubscriptionsFilterMatchesHandles(t *testing.T) {
	m, _ := newTestModel(t)
	m = loadFeed(t, m, ViewSubscriptions, m.Svc.Subs.LoadNext)
	m.CurrentView = ViewSubscriptions

	m, _ = pressRune(t, m, '/')
	require.True(t, m.Filtering)

	// "mkb" is a subsequence of the handle, not of any display name
	for _, r := range "mkb" {
		m, _ = pressRune(t, m, r)
	}

	list := m.Lists[ViewSubscriptions]
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "c1", list.Selected().GetID())

	// Esc restores the unfiltered collection
	m, _ = pressKey(t, m, tea.KeyEsc)
	assert.False(t, m.Filtering)
	assert.Equal(t, 3, m.Lists[ViewSubscriptions].Len())
}

func TestChannelPostsScopeFromSubscriptions(t *testing.T) {
	m, reqs := newTestModel(t)
	m = loadFeed(t, m, ViewSubscriptions, m.Svc.Subs.LoadNext)
	m.CurrentView = ViewSubscriptions

	m, cmd := pressRune(t, m, 'p')
	require.NotNil(t, cmd)
	assert.Equal(t, ViewPosts, m.CurrentView)
	assert.Equal(t, "c1", m.Svc.Posts.Channel())

	msg := cmd()
	_, ok := msg.(FeedLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.True(t, reqs.has("userId=c1"))

	// Back drops to the combined feed
	m, cmd = pressRune(t, m, 'h')
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.Svc.Posts.Channel())
}

func TestEditOwnComment(t *testing.T) {
	m, reqs := newTestModel(t)
	m.Svc.Comments.SetVideo("v1")
	m = loadFeed(t, m, View(-1), m.Svc.Comments.LoadNext)
	m.CurrentView = ViewWatch
	m.Pane = paneComments

	m, _ = pressRune(t, m, 'e')
	require.Equal(t, inputEditComment, m.InputPurpose)
	assert.Equal(t, "cm1", m.EditCommentID)
	assert.Equal(t, "hello", m.Input.Value(), "input starts from the current text")

	m.Input.SetValue("hello there")
	m, cmd := pressKey(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, inputNone, m.InputPurpose)
	assert.Empty(t, m.EditCommentID)

	msg := cmd()
	updated, ok := msg.(CommentUpdatedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "cm1", updated.CommentID)
	assert.True(t, reqs.has("PATCH /api/v1/comments/c/cm1"))
}

func TestEditSomeoneElsesCommentRefused(t *testing.T) {
	m, _ := newTestModel(t)
	m.Svc.Comments.SetVideo("v1")
	m = loadFeed(t, m, View(-1), m.Svc.Comments.LoadNext)
	m.CurrentView = ViewWatch
	m.Pane = paneComments

	m, _ = pressRune(t, m, 'j') // cm2 belongs to someone else
	m, _ = pressRune(t, m, 'e')
	assert.Equal(t, inputNone, m.InputPurpose)
	assert.Equal(t, "Not your comment", m.StatusMsg)
}

func TestEscapeDismisses(t *testing.T) {
	m, _ := newTestModel(t)
	m.CurrentView = ViewWatch

	m, _ = pressRune(t, m, 'c')
	require.Equal(t, inputComment, m.InputPurpose)
	m, _ = pressKey(t, m, tea.KeyEsc)
	assert.Equal(t, inputNone, m.InputPurpose)

	m.StatusMsg = "stale"
	m.ShowHelp = true
	m, _ = pressKey(t, m, tea.KeyEsc)
	assert.Empty(t, m.StatusMsg)
	assert.False(t, m.ShowHelp)
}
