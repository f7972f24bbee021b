package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// WatchService backs the watch view: the currently open video, the suggested
// sidebar feed, and the like/subscribe toggles attached to the main video.
// Opening a different video resets the suggested pager; a suggested page
// still in flight for the previous video is discarded on arrival.
type WatchService struct {
	videos domain.VideoRepository
	subs   domain.SubscriptionRepository
	logger *slog.Logger

	suggested *feed.Pager[*domain.Video]
	inflight  *feed.InflightSet

	mu      sync.Mutex
	videoID string
	video   *domain.Video
	channel *domain.Channel
}

// NewWatchService creates the watch view service.
func NewWatchService(videos domain.VideoRepository, subs domain.SubscriptionRepository, pageSize int, logger *slog.Logger) *WatchService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &WatchService{
		videos:   videos,
		subs:     subs,
		logger:   logger,
		inflight: feed.NewInflightSet(),
	}
	s.suggested = feed.NewPager(s.fetchSuggested, func(v *domain.Video) string { return v.ID }, pageSize, logger)
	return s
}

func (s *WatchService) fetchSuggested(ctx context.Context, page, limit int) (feed.Page[*domain.Video], error) {
	s.mu.Lock()
	videoID := s.videoID
	s.mu.Unlock()
	if videoID == "" {
		return feed.Page[*domain.Video]{}, nil
	}
	return s.videos.ListSuggested(ctx, videoID, page, limit)
}

// Open switches the watch view to a video. The suggested feed resets when
// the subject changes.
func (s *WatchService) Open(ctx context.Context, videoID string) (*domain.Video, error) {
	s.mu.Lock()
	changed := s.videoID != videoID
	s.videoID = videoID
	s.mu.Unlock()

	if changed {
		s.suggested.Reset()
	}

	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.video = video
	s.channel = nil
	s.mu.Unlock()
	return video, nil
}

// Video returns the currently open video.
func (s *WatchService) Video() *domain.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// LoadChannel fetches the uploader's channel profile (for the subscribe
// state shown under the video).
func (s *WatchService) LoadChannel(ctx context.Context, handle string) (*domain.Channel, error) {
	channel, err := s.subs.GetChannel(ctx, handle)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.channel = channel
	s.mu.Unlock()
	return channel, nil
}

// Channel returns the loaded uploader channel, or nil.
func (s *WatchService) Channel() *domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// LoadMoreSuggested fetches the next page of the suggested feed.
func (s *WatchService) LoadMoreSuggested(ctx context.Context) error {
	return s.suggested.LoadNext(ctx)
}

// Suggested returns the suggested feed state for rendering.
func (s *WatchService) Suggested() feed.Snapshot[*domain.Video] {
	return s.suggested.Snapshot()
}

// SuggestedBusy reports whether a suggested page fetch is in flight.
func (s *WatchService) SuggestedBusy() bool { return s.suggested.Busy() }

// SuggestedHasMore reports whether another suggested page may exist.
func (s *WatchService) SuggestedHasMore() bool { return s.suggested.HasMore() }

// BeginLikeToggle applies the optimistic like flip to the open video.
func (s *WatchService) BeginLikeToggle() (feed.ToggleOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video == nil {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire("like:" + s.video.ID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: s.video.Liked, Count: s.video.LikesCount})
	s.video.Liked = outcome.Optimistic.Active
	s.video.LikesCount = outcome.Optimistic.Count
	return outcome, true
}

// CompleteLikeToggle resolves the optimistic like against the server.
func (s *WatchService) CompleteLikeToggle(ctx context.Context, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	s.mu.Lock()
	video := s.video
	s.mu.Unlock()
	if video == nil {
		return outcome.Rollback(), nil
	}
	defer s.inflight.Release("like:" + video.ID)

	active, err := s.videos.ToggleVideoLike(ctx, video.ID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("like toggle failed, rolled back", "videoID", video.ID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.mu.Lock()
	if s.video != nil && s.video.ID == video.ID {
		s.video.Liked = final.Active
		s.video.LikesCount = final.Count
	}
	s.mu.Unlock()
	return final, err
}

// BeginSubscribeToggle applies the optimistic subscription flip to the
// loaded uploader channel.
func (s *WatchService) BeginSubscribeToggle() (feed.ToggleOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel == nil {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire("sub:" + s.channel.ID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: s.channel.Subscribed, Count: s.channel.SubscriberCount})
	s.channel.Subscribed = outcome.Optimistic.Active
	s.channel.SubscriberCount = outcome.Optimistic.Count
	return outcome, true
}

// CompleteSubscribeToggle resolves the optimistic subscription against the
// server.
func (s *WatchService) CompleteSubscribeToggle(ctx context.Context, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	s.mu.Lock()
	channel := s.channel
	s.mu.Unlock()
	if channel == nil {
		return outcome.Rollback(), nil
	}
	defer s.inflight.Release("sub:" + channel.ID)

	active, err := s.subs.ToggleSubscription(ctx, channel.ID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("subscribe toggle failed, rolled back", "channelID", channel.ID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.mu.Lock()
	if s.channel != nil && s.channel.ID == channel.ID {
		s.channel.Subscribed = final.Active
		s.channel.SubscriberCount = final.Count
	}
	s.mu.Unlock()
	return final, err
}
