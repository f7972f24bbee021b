package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/store"
)

// VideoFeedService drives the home feed and its variants: the same endpoint
// scoped by search query or by channel. Changing the scope resets the pager,
// so a stale page for the previous scope can never land in the new one.
type VideoFeedService struct {
	repo   domain.VideoRepository
	cache  *store.FeedCache
	logger *slog.Logger

	pager    *feed.Pager[*domain.Video]
	inflight *feed.InflightSet

	mu        sync.Mutex
	query     string
	channelID string
}

// NewVideoFeedService creates the video feed service.
func NewVideoFeedService(repo domain.VideoRepository, cache *store.FeedCache, pageSize int, logger *slog.Logger) *VideoFeedService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &VideoFeedService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		inflight: feed.NewInflightSet(),
	}
	s.pager = feed.NewPager(s.fetch, func(v *domain.Video) string { return v.ID }, pageSize, logger)
	return s
}

func (s *VideoFeedService) fetch(ctx context.Context, page, limit int) (feed.Page[*domain.Video], error) {
	s.mu.Lock()
	query, channelID := s.query, s.channelID
	s.mu.Unlock()
	return s.repo.ListVideos(ctx, query, channelID, page, limit)
}

// SetScope switches the feed identity (search query and/or channel).
// A no-op when the scope is unchanged; otherwise the collection resets.
func (s *VideoFeedService) SetScope(query, channelID string) {
	s.mu.Lock()
	changed := s.query != query || s.channelID != channelID
	s.query = query
	s.channelID = channelID
	s.mu.Unlock()

	if changed {
		s.pager.Reset()
	}
}

// CachedFirstPage returns the locally cached first page for the current
// scope, for painting before the network answers.
func (s *VideoFeedService) CachedFirstPage() []*domain.Video {
	if s.cache == nil {
		return nil
	}
	videos, _ := s.cache.GetVideos(s.scopeKey())
	return videos
}

func (s *VideoFeedService) scopeKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.channelID != "":
		return "channel:" + s.channelID
	case s.query != "":
		return "search:" + s.query
	default:
		return "home"
	}
}

// LoadNext fetches and merges the next page.
func (s *VideoFeedService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the collection with a fresh first page and re-seeds the
// local cache.
func (s *VideoFeedService) Refresh(ctx context.Context) error {
	if err := s.pager.Refresh(ctx); err != nil {
		return err
	}
	s.saveFirstPage()
	return nil
}

func (s *VideoFeedService) saveFirstPage() {
	if s.cache == nil {
		return
	}
	snap := s.pager.Snapshot()
	if len(snap.Items) > 0 {
		if err := s.cache.SaveVideos(s.scopeKey(), snap.Items); err != nil {
			s.logger.Warn("failed to cache video feed", "error", err)
		}
	}
}

// Snapshot returns the current feed state for rendering.
func (s *VideoFeedService) Snapshot() feed.Snapshot[*domain.Video] {
	return s.pager.Snapshot()
}

// Busy reports whether a page fetch is in flight.
func (s *VideoFeedService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another page is believed to exist.
func (s *VideoFeedService) HasMore() bool { return s.pager.HasMore() }

// BeginLikeToggle applies the optimistic like flip to the loaded video and
// returns the outcome needed for reconciliation. Returns ok=false when the
// video is not loaded or a toggle for it is already outstanding (the click
// is dropped, not queued).
func (s *VideoFeedService) BeginLikeToggle(videoID string) (feed.ToggleOutcome, bool) {
	video, found := s.pager.Find(videoID)
	if !found {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire(videoID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: video.Liked, Count: video.LikesCount})
	s.pager.UpdateItem(videoID, func(v *domain.Video) *domain.Video {
		v.Liked = outcome.Optimistic.Active
		v.LikesCount = outcome.Optimistic.Count
		return v
	})
	return outcome, true
}

// CompleteLikeToggle issues the remote mutation and reconciles or rolls
// back the optimistic state. The returned state is what the collection now
// holds.
func (s *VideoFeedService) CompleteLikeToggle(ctx context.Context, videoID string, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	defer s.inflight.Release(videoID)

	active, err := s.repo.ToggleVideoLike(ctx, videoID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("like toggle failed, rolled back", "videoID", videoID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.pager.UpdateItem(videoID, func(v *domain.Video) *domain.Video {
		v.Liked = final.Active
		v.LikesCount = final.Count
		return v
	})
	return final, err
}
