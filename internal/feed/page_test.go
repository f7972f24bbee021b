package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestPageHasMore(t *testing.T) {
	tests := []struct {
		name  string
		page  Page[int]
		limit int
		want  bool
	}{
		{
			name:  "server-reported next page wins",
			page:  Page[int]{Items: []int{1}, Page: 5, TotalPages: 5, HasNextPage: boolPtr(true)},
			limit: 20,
			want:  true,
		},
		{
			name:  "server-reported exhaustion wins over full page",
			page:  Page[int]{Items: make([]int, 20), Page: 1, HasNextPage: boolPtr(false)},
			limit: 20,
			want:  false,
		},
		{
			name:  "page below total pages",
			page:  Page[int]{Items: make([]int, 20), Page: 2, TotalPages: 4},
			limit: 20,
			want:  true,
		},
		{
			name:  "last page by total pages",
			page:  Page[int]{Items: make([]int, 20), Page: 4, TotalPages: 4},
			limit: 20,
			want:  false,
		},
		{
			name:  "full page heuristic when server reports nothing",
			page:  Page[int]{Items: make([]int, 20), Page: 1},
			limit: 20,
			want:  true,
		},
		{
			name:  "short page means exhausted",
			page:  Page[int]{Items: make([]int, 7), Page: 1},
			limit: 20,
			want:  false,
		},
		{
			name:  "empty page means exhausted",
			page:  Page[int]{Page: 1},
			limit: 20,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.HasMore(tt.limit))
		})
	}
}
