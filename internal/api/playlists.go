package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// ListPlaylists returns one page of the current user's playlists.
func (c *Client) ListPlaylists(ctx context.Context, page, limit int) (feed.Page[*domain.Playlist], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/playlist/user", pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.Playlist]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapPlaylist)
	return pageOf(list, page, items), nil
}

// ListPlaylistVideos returns one page of videos in a playlist.
func (c *Client) ListPlaylistVideos(ctx context.Context, playlistID string, page, limit int) (feed.Page[*domain.Video], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/playlist/"+playlistID+"/videos", pageQuery(page, limit), nil)
	if err != nil {
		return feed.Page[*domain.Video]{}, err
	}

	list := c.normalizeList(body)
	items := decodeDocs(c, list.Docs, mapVideo)
	return pageOf(list, page, items), nil
}

// CreatePlaylist creates a new playlist.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (*domain.Playlist, error) {
	payload := map[string]string{"name": name, "description": description}
	body, err := c.doRequest(ctx, http.MethodPost, "/playlist", nil, payload)
	if err != nil {
		return nil, err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, fmt.Errorf("no playlist returned from server")
	}
	var dto playlistDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}
	return mapPlaylist(dto), nil
}

// DeletePlaylist deletes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/playlist/"+playlistID, nil, nil)
	return err
}

// AddVideo adds a video to a playlist.
func (c *Client) AddVideo(ctx context.Context, playlistID, videoID string) error {
	path := fmt.Sprintf("/playlist/add/%s/%s", videoID, playlistID)
	_, err := c.doRequest(ctx, http.MethodPatch, path, nil, nil)
	return err
}

// RemoveVideo removes a video from a playlist.
func (c *Client) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	path := fmt.Sprintf("/playlist/remove/%s/%s", videoID, playlistID)
	_, err := c.doRequest(ctx, http.MethodPatch, path, nil, nil)
	return err
}
