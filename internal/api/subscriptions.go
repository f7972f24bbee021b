package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListSubscriptions returns one page of channels the user subscribes to.
func (c *Client) ListSubscriptions(ctx context.Context, page, limit int) (feed.Page[*domain.Channel], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/subscriptions/u", pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.Channel]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapChannel)
	return pageOf(list, page, items), nil
}

// GetChannel returns a channel profile as seen by the current user.
func (c *Client) GetChannel(ctx context.Context, handle string) (*domain.Channel, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/c/"+handle, nil, nil)
	if err != nil {
		return nil, err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, domain.ErrItemNotFound
	}
	var dto channelDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse channel: %w", err)
	}
	return mapChannel(dto), nil
}

// ToggleSubscription flips the subscription to a channel and returns the
// server-confirmed resulting state.
func (c *Client) ToggleSubscription(ctx context.Context, channelID string) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/subscriptions/c/"+channelID, nil, nil)
	if err != nil {
		return false, err
	}

	active, ok := toggleStateFromMessage(messageText(body))
	if !ok {
		return false, fmt.Errorf("subscription toggle: unrecognized server message %q", messageText(body))
	}
	return active, nil
}
