package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListPosts returns one page of community posts. An empty channelID means
// the user's combined feed.
func (c *Client) ListPosts(ctx context.Context, channelID string, page, limit int) (feed.Page[*domain.Post], error) {
	params := pageQuery(page, limit)
	if channelID != "" {
		params.Set("userId", channelID)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/posts", params, nil)
	if err != nil {
		return feed.Page[*domain.Post]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapPost)
	return pageOf(list, page, items), nil
}

// CreatePost publishes a new community post.
func (c *Client) CreatePost(ctx context.Context, content string) (*domain.Post, error) {
	payload := map[string]string{"content": content}
	body, err := c.doRequest(ctx, http.MethodPost, "/posts", nil, payload)
	if err != nil {
		return nil, err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, fmt.Errorf("no post returned from server")
	}
	var dto postDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse post: %w", err)
	}
	return mapPost(dto), nil
}

// DeletePost removes a post owned by the current user.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/posts/"+postID, nil, nil)
	return err
}

// TogglePostLike flips the like on a post and returns the server-confirmed
// resulting state.
func (c *Client) TogglePostLike(ctx context.Context, postID string) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/likes/toggle/p/"+postID, nil, nil)
	if err != nil {
		return false, err
	}

	active, ok := toggleStateFromMessage(messageText(body))
	if !ok {
		return false, fmt.Errorf("post like toggle: unrecognized server message %q", messageText(body))
	}
	return active, nil
}
