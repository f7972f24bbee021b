package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/log"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "test-token", log.NullLogger())
}

func TestDoRequestErrorMapping(t *testing.T) {
	t.Run("401 maps to session expired", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"statusCode":401,"message":"Unauthorized request","success":false}`)
		})

		_, err := c.GetVideo(context.Background(), "v1")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("jwt-expired html page maps to session expired regardless of status", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `<!DOCTYPE html><html><body><pre>Error: jwt expired<br>at verify</pre></body></html>`)
		})

		_, err := c.GetVideo(context.Background(), "v1")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("404 maps to item not found", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"statusCode":404,"message":"Video not found","success":false}`)
		})

		_, err := c.GetVideo(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("unreachable server maps to offline", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "", log.NullLogger())

		_, err := c.GetVideo(context.Background(), "v1")
		assert.ErrorIs(t, err, domain.ErrServerOffline)
	})

	t.Run("other errors surface the server message", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"statusCode":400,"message":"Invalid video id","success":false}`)
		})

		_, err := c.GetVideo(context.Background(), "v1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid video id")
	})
}

func TestDoRequestHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"data":{"_id":"v1","title":"t"},"success":true}`)
	})

	_, err := c.GetVideo(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestListVideos(t *testing.T) {
	t.Run("decodes a paginated page", func(t *testing.T) {
		var gotPath, gotQuery string
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, `{
				"statusCode": 200,
				"data": {
					"docs": [
						{"_id":"v1","title":"First","duration":125.4,"views":1200,"likesCount":3,"isLiked":true,
						 "owner":{"_id":"u1","username":"alice","fullName":"Alice"}},
						{"_id":"v2","title":"Second","duration":59.0,"views":80,
						 "ownerDetails":{"_id":"u2","username":"bob"}}
					],
					"page": 1, "totalPages": 3, "hasNextPage": true
				},
				"message": "Videos fetched successfully",
				"success": true
			}`)
		})

		page, err := c.ListVideos(context.Background(), "cats", "", 1, 20)
		require.NoError(t, err)

		assert.Equal(t, "/api/v1/videos", gotPath)
		assert.Contains(t, gotQuery, "page=1")
		assert.Contains(t, gotQuery, "limit=20")
		assert.Contains(t, gotQuery, "query=cats")

		require.Len(t, page.Items, 2)
		assert.Equal(t, "v1", page.Items[0].ID)
		assert.Equal(t, "Alice", page.Items[0].OwnerName)
		assert.True(t, page.Items[0].Liked)
		assert.Equal(t, 3, page.Items[0].LikesCount)
		assert.Equal(t, "2:05", page.Items[0].FormattedDuration())
		assert.Equal(t, "bob", page.Items[1].OwnerName, "ownerDetails fallback")

		assert.True(t, page.HasMore(20))
	})

	t.Run("malformed doc is skipped, not fatal", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":{"docs":[{"_id":"v1","title":"ok"},"not an object"],"page":1,"totalPages":1}}`)
		})

		page, err := c.ListVideos(context.Background(), "", "", 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "v1", page.Items[0].ID)
	})

	t.Run("empty backend yields an exhausted page", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":{"docs":[],"page":1,"totalPages":0,"hasNextPage":false},"success":true}`)
		})

		page, err := c.ListVideos(context.Background(), "", "", 1, 20)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore(20))
	})
}

func TestToggleVideoLike(t *testing.T) {
	t.Run("liked message", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/likes/toggle/v/v1", r.URL.Path)
			fmt.Fprint(w, `{"statusCode":200,"data":null,"message":"Like added","success":true}`)
		})

		active, err := c.ToggleVideoLike(context.Background(), "v1")
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("unliked message", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"statusCode":200,"data":null,"message":"Like removed","success":true}`)
		})

		active, err := c.ToggleVideoLike(context.Background(), "v1")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("unrecognized message is an error", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"statusCode":200,"data":null,"message":"ok then","success":true}`)
		})

		_, err := c.ToggleVideoLike(context.Background(), "v1")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/login", r.URL.Path)
		fmt.Fprint(w, `{
			"statusCode": 200,
			"data": {"user":{"_id":"u1","username":"alice","email":"a@b.c","fullName":"Alice"},"accessToken":"tok-123"},
			"message": "User logged in successfully",
			"success": true
		}`)
	})

	user, token, err := c.Login(context.Background(), "a@b.c", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Handle)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "tok-123", c.getToken(), "token installed for subsequent requests")
}

func TestTokenConcurrentAccess(t *testing.T) {
	// Login rotates the token from one command goroutine while other
	// commands are issuing requests; both sides go through the token lock.
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"statusCode":200,"data":"OK","message":"healthy","success":true}`)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.SetToken(fmt.Sprintf("tok-%d", n))
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Ping(context.Background())
		}()
	}
	wg.Wait()

	assert.NotEmpty(t, c.getToken())
}
