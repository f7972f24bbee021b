package api

import (
	"net/url"
	"strconv"

	"github.com/mvickers/tubetui/internal/feed"
)

// pageQuery builds the standard pagination query parameters.
func pageQuery(page, limit int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return query
}

// pageOf assembles a normalized feed page. Endpoints that return a bare
// array report no page number; the requested one is used so the pager's
// cursor still advances.
func pageOf[T any](list listEnvelope, requested int, items []T) feed.Page[T] {
	page := list.Page
	if page == 0 {
		page = requested
	}
	return feed.Page[T]{
		Items:       items,
		Page:        page,
		TotalPages:  list.TotalPages,
		HasNextPage: list.HasNextPage,
	}
}
