package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListComments returns one page of a video's comment thread.
func (c *Client) ListComments(ctx context.Context, videoID string, page, limit int) (feed.Page[*domain.Comment], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/comments/"+videoID, pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.Comment]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapComment)
	return pageOf(list, page, items), nil
}

// AddComment posts a new comment on a video.
func (c *Client) AddComment(ctx context.Context, videoID, content string) (*domain.Comment, error) {
	payload := map[string]string{"content": content}
	body, err := c.doRequest(ctx, http.MethodPost, "/comments/"+videoID, nil, payload)
	if err != nil {
		return nil, err
	}
	return parseCommentResponse(body)
}

// UpdateComment edits a comment owned by the current user.
func (c *Client) UpdateComment(ctx context.Context, commentID, content string) (*domain.Comment, error) {
	payload := map[string]string{"content": content}
	body, err := c.doRequest(ctx, http.MethodPatch, "/comments/c/"+commentID, nil, payload)
	if err != nil {
		return nil, err
	}
	return parseCommentResponse(body)
}

// DeleteComment removes a comment owned by the current user.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/comments/c/"+commentID, nil, nil)
	return err
}

// ToggleCommentLike flips the like on a comment and returns the
// server-confirmed resulting state.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID string) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/likes/toggle/c/"+commentID, nil, nil)
	if err != nil {
		return false, err
	}

	active, ok := toggleStateFromMessage(messageText(body))
	if !ok {
		return false, fmt.Errorf("comment like toggle: unrecognized server message %q", messageText(body))
	}
	return active, nil
}

func parseCommentResponse(body []byte) (*domain.Comment, error) {
	raw := unwrapData(body)
	if raw == nil {
		return nil, domain.ErrItemNotFound
	}
	var dto commentDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse comment: %w", err)
	}
	return mapComment(dto), nil
}
