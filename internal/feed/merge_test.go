package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string
	Likes int
}

func rowKey(r row) string { return r.ID }

func rows(ids ...string) []row {
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{ID: id}
	}
	return out
}

func ids(items []row) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestMergeAppend(t *testing.T) {
	t.Run("appends new items in incoming order", func(t *testing.T) {
		got := Merge(rows("a", "b"), rows("c", "d"), rowKey, Append)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
	})

	t.Run("collision keeps first insertion position", func(t *testing.T) {
		got := Merge(rows("a", "b", "c"), rows("b", "d"), rowKey, Append)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
	})

	t.Run("collision overwrites payload in place", func(t *testing.T) {
		prev := []row{{ID: "a", Likes: 1}, {ID: "b", Likes: 2}}
		incoming := []row{{ID: "b", Likes: 99}}

		got := Merge(prev, incoming, rowKey, Append)

		require.Len(t, got, 2)
		assert.Equal(t, 99, got[1].Likes)
	})

	t.Run("no key ever appears twice", func(t *testing.T) {
		// Simulates pagination shifting under concurrent inserts: page 2
		// re-serves half of page 1.
		prev := rows("a", "b", "c", "d")
		incoming := rows("c", "d", "e", "f")

		got := Merge(prev, incoming, rowKey, Append)

		seen := make(map[string]int)
		for _, r := range got {
			seen[r.ID]++
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "id %s appears %d times", id, n)
		}
		assert.Len(t, got, 6)
	})

	t.Run("merging the same page twice is a no-op", func(t *testing.T) {
		prev := rows("a", "b")
		page := rows("c", "d")

		once := Merge(prev, page, rowKey, Append)
		twice := Merge(once, page, rowKey, Append)

		assert.Equal(t, ids(once), ids(twice))
	})

	t.Run("empty incoming leaves collection unchanged", func(t *testing.T) {
		got := Merge(rows("a", "b"), nil, rowKey, Append)
		assert.Equal(t, []string{"a", "b"}, ids(got))
	})

	t.Run("nil prev behaves like first page", func(t *testing.T) {
		got := Merge(nil, rows("a"), rowKey, Append)
		assert.Equal(t, []string{"a"}, ids(got))
	})
}

func TestMergeReplace(t *testing.T) {
	t.Run("discards previous collection", func(t *testing.T) {
		got := Merge(rows("a", "b", "c"), rows("x", "y"), rowKey, Replace)
		assert.Equal(t, []string{"x", "y"}, ids(got))
	})

	t.Run("result does not alias incoming", func(t *testing.T) {
		incoming := rows("x", "y")
		got := Merge(rows("a"), incoming, rowKey, Replace)

		incoming[0].ID = "mutated"
		assert.Equal(t, "x", got[0].ID)
	})
}

func TestMergeManyPages(t *testing.T) {
	// Ten overlapping pages, each re-serving the tail of the previous one.
	var collection []row
	for p := 0; p < 10; p++ {
		var page []row
		for i := 0; i < 20; i++ {
			page = append(page, row{ID: fmt.Sprintf("v%03d", p*15+i)})
		}
		mode := Append
		if p == 0 {
			mode = Replace
		}
		collection = Merge(collection, page, rowKey, mode)
	}

	// 10 pages stepping by 15 with 20 items each covers v000..v154.
	assert.Len(t, collection, 155)
	assert.Equal(t, "v000", collection[0].ID)
	assert.Equal(t, "v154", collection[len(collection)-1].ID)
}
