package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/log"
)

func testClient() *Client {
	return NewClient("http://example.test", "", log.NullLogger())
}

func TestNormalizeList(t *testing.T) {
	c := testClient()

	t.Run("paginated container under data", func(t *testing.T) {
		body := []byte(`{
			"statusCode": 200,
			"data": {"docs": [{"_id":"a"},{"_id":"b"}], "page": 2, "totalPages": 5, "hasNextPage": true},
			"message": "Videos fetched successfully",
			"success": true
		}`)

		list := c.normalizeList(body)

		require.Len(t, list.Docs, 2)
		assert.Equal(t, 2, list.Page)
		assert.Equal(t, 5, list.TotalPages)
		require.NotNil(t, list.HasNextPage)
		assert.True(t, *list.HasNextPage)
	})

	t.Run("bare array under data", func(t *testing.T) {
		body := []byte(`{"statusCode":200,"data":[{"_id":"a"}],"message":"ok","success":true}`)

		list := c.normalizeList(body)

		assert.Len(t, list.Docs, 1)
		assert.Nil(t, list.HasNextPage)
	})

	t.Run("paginated container under message", func(t *testing.T) {
		body := []byte(`{
			"statusCode": 200,
			"data": null,
			"message": {"docs": [{"_id":"a"}], "page": 1, "totalPages": 1, "hasNextPage": false},
			"success": true
		}`)

		list := c.normalizeList(body)

		require.Len(t, list.Docs, 1)
		require.NotNil(t, list.HasNextPage)
		assert.False(t, *list.HasNextPage)
	})

	t.Run("bare array under message", func(t *testing.T) {
		body := []byte(`{"statusCode":200,"message":[{"_id":"a"},{"_id":"b"},{"_id":"c"}],"success":true}`)

		list := c.normalizeList(body)
		assert.Len(t, list.Docs, 3)
	})

	t.Run("data wins over message when both hold lists", func(t *testing.T) {
		body := []byte(`{"data":{"docs":[{"_id":"right"}]},"message":[{"_id":"wrong"}]}`)

		list := c.normalizeList(body)
		require.Len(t, list.Docs, 1)
		assert.JSONEq(t, `{"_id":"right"}`, string(list.Docs[0]))
	})

	t.Run("top-level array with no envelope", func(t *testing.T) {
		body := []byte(`[{"_id":"a"},{"_id":"b"}]`)

		list := c.normalizeList(body)
		assert.Len(t, list.Docs, 2)
	})

	t.Run("unrecognized shape is an empty page, not an error", func(t *testing.T) {
		for _, body := range []string{
			`{"statusCode":200,"data":{"weird":true},"message":"ok"}`,
			`{"statusCode":200,"message":"plain string"}`,
			`not json at all`,
			`{}`,
		} {
			list := c.normalizeList([]byte(body))
			assert.Empty(t, list.Docs, "body: %s", body)
		}
	})

	t.Run("empty docs array round-trips as empty", func(t *testing.T) {
		body := []byte(`{"data":{"docs":[],"page":1,"totalPages":0,"hasNextPage":false}}`)

		list := c.normalizeList(body)
		assert.Empty(t, list.Docs)
		require.NotNil(t, list.HasNextPage)
		assert.False(t, *list.HasNextPage)
	})
}

func TestUnwrapData(t *testing.T) {
	t.Run("prefers data", func(t *testing.T) {
		raw := unwrapData([]byte(`{"data":{"_id":"v1"},"message":"ok"}`))
		assert.JSONEq(t, `{"_id":"v1"}`, string(raw))
	})

	t.Run("falls back to object message", func(t *testing.T) {
		raw := unwrapData([]byte(`{"data":null,"message":{"_id":"v1"}}`))
		assert.JSONEq(t, `{"_id":"v1"}`, string(raw))
	})

	t.Run("string message is not a payload", func(t *testing.T) {
		raw := unwrapData([]byte(`{"data":null,"message":"deleted"}`))
		assert.Nil(t, raw)
	})
}

func TestToggleStateFromMessage(t *testing.T) {
	tests := []struct {
		msg    string
		active bool
		ok     bool
	}{
		{"Subscribed successfully", true, true},
		{"Unsubscribed successfully", false, true},
		{"Like added", true, true},
		{"Like removed", false, true},
		{"Video liked", true, true},
		{"Video added to playlist", true, true},
		{"Video removed from playlist", false, true},
		{"Comment deleted successfully", false, true},
		{"Playlist created", true, true},
		{"something else entirely", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			active, ok := toggleStateFromMessage(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.active, active)
			}
		})
	}
}

func TestExtractErrorMessage(t *testing.T) {
	t.Run("structured message", func(t *testing.T) {
		msg := extractErrorMessage([]byte(`{"statusCode":400,"message":"Invalid video id","success":false}`))
		assert.Equal(t, "Invalid video id", msg)
	})

	t.Run("express html error page", func(t *testing.T) {
		body := []byte(`<!DOCTYPE html><html><body><pre>Error: jwt expired<br> &nbsp; at module</pre></body></html>`)
		msg := extractErrorMessage(body)
		assert.Equal(t, "jwt expired", msg)
	})

	t.Run("nothing recognizable", func(t *testing.T) {
		assert.Empty(t, extractErrorMessage([]byte(`garbage`)))
	})
}

func TestSessionExpiredMessage(t *testing.T) {
	assert.True(t, sessionExpiredMessage("jwt expired"))
	assert.True(t, sessionExpiredMessage("JWT Expired"))
	assert.True(t, sessionExpiredMessage("Invalid access token"))
	assert.False(t, sessionExpiredMessage("Invalid video id"))
	assert.False(t, sessionExpiredMessage(""))
}
