package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/log"
)

func videos(titles ...string) []domain.FeedItem {
	out := make([]domain.FeedItem, len(titles))
	for i, title := range titles {
		out[i] = &domain.Video{ID: title, Title: title}
	}
	return out
}

func TestFilterLocal(t *testing.T) {
	svc := NewService(log.NullLogger())

	t.Run("empty query returns nil", func(t *testing.T) {
		assert.Nil(t, svc.FilterLocal("", videos("a", "b")))
	})

	t.Run("matches are case insensitive", func(t *testing.T) {
		results := svc.FilterLocal("GOPHER", videos("A gopher tutorial", "Cooking pasta"))
		require.Len(t, results, 1)
		assert.Equal(t, "A gopher tutorial", results[0].Item.GetTitle())
	})

	t.Run("closer matches rank first", func(t *testing.T) {
		results := svc.FilterLocal("go", videos(
			"Rust and go compared at length",
			"go",
		))
		require.NotEmpty(t, results)
		assert.Equal(t, "go", results[0].Item.GetTitle())
	})

	t.Run("non-matching items are excluded", func(t *testing.T) {
		results := svc.FilterLocal("zebra", videos("A gopher tutorial", "Cooking pasta"))
		assert.Empty(t, results)
	})
}

func TestPickChannels(t *testing.T) {
	channels := []*domain.Channel{
		{ID: "c1", Handle: "mkbhd", Name: "Marques"},
		{ID: "c2", Handle: "veritasium", Name: "Derek"},
		{ID: "c3", Handle: "kurzgesagt", Name: "In a Nutshell"},
	}

	t.Run("empty query returns everything", func(t *testing.T) {
		assert.Len(t, PickChannels("", channels), 3)
	})

	t.Run("subsequence matches the handle", func(t *testing.T) {
		got := PickChannels("mkb", channels)
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].Channel.ID)
		assert.NotEmpty(t, got[0].MatchedIndexes)
	})

	t.Run("display name matches too", func(t *testing.T) {
		got := PickChannels("nutshell", channels)
		require.Len(t, got, 1)
		assert.Equal(t, "c3", got[0].Channel.ID)
	})
}
