package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListVideos returns one page of the video catalog. Query and channelID are
// optional filters (search and channel uploads reuse the same endpoint).
func (c *Client) ListVideos(ctx context.Context, query, channelID string, page, limit int) (feed.Page[*domain.Video], error) {
	params := pageQuery(page, limit)
	if query != "" {
		params.Set("query", query)
	}
	if channelID != "" {
		params.Set("userId", channelID)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/videos", params, nil)
	if err != nil {
		return feed.Page[*domain.Video]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapVideo)
	return pageOf(list, page, items), nil
}

// GetVideo returns full metadata for a single video.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*domain.Video, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/videos/"+videoID, nil, nil)
	if err != nil {
		return nil, err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, domain.ErrItemNotFound
	}

	var dto videoDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse video: %w", err)
	}
	return mapVideo(dto), nil
}

// ListSuggested returns one page of videos suggested next to videoID.
func (c *Client) ListSuggested(ctx context.Context, videoID string, page, limit int) (feed.Page[*domain.Video], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/videos/"+videoID+"/suggested", pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.Video]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapVideo)
	return pageOf(list, page, items), nil
}

// ToggleVideoLike flips the like on a video and returns the server-confirmed
// resulting state.
func (c *Client) ToggleVideoLike(ctx context.Context, videoID string) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/likes/toggle/v/"+videoID, nil, nil)
	if err != nil {
		return false, err
	}

	active, ok := toggleStateFromMessage(messageText(body))
	if !ok {
		return false, fmt.Errorf("like toggle: unrecognized server message %q", messageText(body))
	}
	return active, nil
}
