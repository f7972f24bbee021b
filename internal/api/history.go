package api

import (
	"context"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListHistory returns one page of the user's watch history, most recent
// first.
func (c *Client) ListHistory(ctx context.Context, page, limit int) (feed.Page[*domain.HistoryEntry], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/history", pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.HistoryEntry]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapHistoryEntry)
	return pageOf(list, page, items), nil
}

// ClearHistory wipes the entire watch history.
func (c *Client) ClearHistory(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/users/history", nil, nil)
	return err
}
