package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/store"
)

// PlaylistService drives the playlists view and the video list inside an
// opened playlist. The playlist collection is kept sorted by most recently
// updated even as pages merge in, so an edited playlist bubbles to the top
// rather than staying at its original insertion position.
type PlaylistService struct {
	repo   domain.PlaylistRepository
	cache  *store.FeedCache
	logger *slog.Logger

	pager  *feed.Pager[*domain.Playlist]
	videos *feed.Pager[*domain.Video]

	mu     sync.Mutex
	openID string
}

// NewPlaylistService creates the playlists service.
func NewPlaylistService(repo domain.PlaylistRepository, cache *store.FeedCache, pageSize int, logger *slog.Logger) *PlaylistService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PlaylistService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
	s.pager = feed.NewPager(s.fetchPlaylists, func(p *domain.Playlist) string { return p.ID }, pageSize, logger)
	s.pager.SortAfterMerge(func(a, b *domain.Playlist) bool { return a.UpdatedAt.After(b.UpdatedAt) })
	s.videos = feed.NewPager(s.fetchVideos, func(v *domain.Video) string { return v.ID }, pageSize, logger)
	return s
}

func (s *PlaylistService) fetchPlaylists(ctx context.Context, page, limit int) (feed.Page[*domain.Playlist], error) {
	return s.repo.ListPlaylists(ctx, page, limit)
}

func (s *PlaylistService) fetchVideos(ctx context.Context, page, limit int) (feed.Page[*domain.Video], error) {
	s.mu.Lock()
	openID := s.openID
	s.mu.Unlock()
	if openID == "" {
		return feed.Page[*domain.Video]{}, nil
	}
	return s.repo.ListPlaylistVideos(ctx, openID, page, limit)
}

// CachedFirstPage returns the locally cached playlists for painting before
// the network answers.
func (s *PlaylistService) CachedFirstPage() []*domain.Playlist {
	if s.cache == nil {
		return nil
	}
	playlists, _ := s.cache.GetPlaylists()
	return playlists
}

// LoadNext fetches and merges the next page of playlists.
func (s *PlaylistService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the playlist collection with a fresh first page and
// re-seeds the local cache.
func (s *PlaylistService) Refresh(ctx context.Context) error {
	if err := s.pager.Refresh(ctx); err != nil {
		return err
	}
	s.saveFirstPage()
	return nil
}

func (s *PlaylistService) saveFirstPage() {
	if s.cache == nil {
		return
	}
	snap := s.pager.Snapshot()
	if len(snap.Items) > 0 {
		if err := s.cache.SavePlaylists(snap.Items); err != nil {
			s.logger.Warn("failed to cache playlists", "error", err)
		}
	}
}

// Snapshot returns the playlist collection state for rendering.
func (s *PlaylistService) Snapshot() feed.Snapshot[*domain.Playlist] {
	return s.pager.Snapshot()
}

// Busy reports whether a playlist page fetch is in flight.
func (s *PlaylistService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another playlist page is believed to exist.
func (s *PlaylistService) HasMore() bool { return s.pager.HasMore() }

// Open scopes the video list to one playlist, resetting it when the subject
// changes.
func (s *PlaylistService) Open(playlistID string) {
	s.mu.Lock()
	changed := s.openID != playlistID
	s.openID = playlistID
	s.mu.Unlock()

	if changed {
		s.videos.Reset()
	}
}

// OpenID returns the id of the currently opened playlist, or "".
func (s *PlaylistService) OpenID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openID
}

// LoadMoreVideos fetches the next page of the opened playlist's videos.
func (s *PlaylistService) LoadMoreVideos(ctx context.Context) error {
	return s.videos.LoadNext(ctx)
}

// Videos returns the opened playlist's video list state for rendering.
func (s *PlaylistService) Videos() feed.Snapshot[*domain.Video] {
	return s.videos.Snapshot()
}

// VideosBusy reports whether a playlist-video page fetch is in flight.
func (s *PlaylistService) VideosBusy() bool { return s.videos.Busy() }

// VideosHasMore reports whether another playlist-video page may exist.
func (s *PlaylistService) VideosHasMore() bool { return s.videos.HasMore() }

// Create makes a new playlist and refreshes the collection so the server
// row lands sorted.
func (s *PlaylistService) Create(ctx context.Context, name, description string) (*domain.Playlist, error) {
	playlist, err := s.repo.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("playlist refresh after create failed", "error", err)
	}
	return playlist, nil
}

// Delete removes a playlist and refreshes the collection.
func (s *PlaylistService) Delete(ctx context.Context, playlistID string) error {
	if err := s.repo.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.openID == playlistID {
		s.openID = ""
		s.videos.Reset()
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("playlist refresh after delete failed", "error", err)
	}
	return nil
}

// AddVideo adds a video to a playlist. The playlist's item count and
// UpdatedAt change server-side, so the collection is refreshed to re-sort.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID string) error {
	if err := s.repo.AddVideo(ctx, playlistID, videoID); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("playlist refresh after add failed", "error", err)
	}
	return nil
}

// RemoveVideo removes a video from a playlist and refreshes both the
// collection and the opened video list when it is the affected one.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	if err := s.repo.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return err
	}

	s.mu.Lock()
	affected := s.openID == playlistID
	s.mu.Unlock()
	if affected {
		if err := s.videos.Refresh(ctx); err != nil {
			s.logger.Warn("playlist video refresh after remove failed", "error", err)
		}
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("playlist refresh after remove failed", "error", err)
	}
	return nil
}
