package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/store"
)

// PostService drives the community post feed, optionally scoped to one
// channel. Changing the scope resets the pager.
type PostService struct {
	repo   domain.PostRepository
	cache  *store.FeedCache
	logger *slog.Logger

	pager    *feed.Pager[*domain.Post]
	inflight *feed.InflightSet

	mu        sync.Mutex
	channelID string
}

// NewPostService creates the community post service.
func NewPostService(repo domain.PostRepository, cache *store.FeedCache, pageSize int, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PostService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		inflight: feed.NewInflightSet(),
	}
	s.pager = feed.NewPager(s.fetch, func(p *domain.Post) string { return p.ID }, pageSize, logger)
	return s
}

func (s *PostService) fetch(ctx context.Context, page, limit int) (feed.Page[*domain.Post], error) {
	s.mu.Lock()
	channelID := s.channelID
	s.mu.Unlock()
	return s.repo.ListPosts(ctx, channelID, page, limit)
}

// SetChannel scopes the feed to one channel (empty = combined feed),
// resetting the collection on change.
func (s *PostService) SetChannel(channelID string) {
	s.mu.Lock()
	changed := s.channelID != channelID
	s.channelID = channelID
	s.mu.Unlock()

	if changed {
		s.pager.Reset()
	}
}

// Channel returns the current channel scope, or "" for the combined feed.
func (s *PostService) Channel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID
}

func (s *PostService) scopeKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channelID != "" {
		return "channel:" + s.channelID
	}
	return "feed"
}

// CachedFirstPage returns the locally cached posts for the current scope.
func (s *PostService) CachedFirstPage() []*domain.Post {
	if s.cache == nil {
		return nil
	}
	posts, _ := s.cache.GetPosts(s.scopeKey())
	return posts
}

// LoadNext fetches and merges the next page of posts.
func (s *PostService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the collection with a fresh first page and re-seeds the
// local cache.
func (s *PostService) Refresh(ctx context.Context) error {
	if err := s.pager.Refresh(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		snap := s.pager.Snapshot()
		if len(snap.Items) > 0 {
			if err := s.cache.SavePosts(s.scopeKey(), snap.Items); err != nil {
				s.logger.Warn("failed to cache posts", "error", err)
			}
		}
	}
	return nil
}

// Snapshot returns the post feed state for rendering.
func (s *PostService) Snapshot() feed.Snapshot[*domain.Post] {
	return s.pager.Snapshot()
}

// Busy reports whether a page fetch is in flight.
func (s *PostService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another page is believed to exist.
func (s *PostService) HasMore() bool { return s.pager.HasMore() }

// Create publishes a new post and refreshes the feed.
func (s *PostService) Create(ctx context.Context, content string) (*domain.Post, error) {
	post, err := s.repo.CreatePost(ctx, content)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("post feed refresh after create failed", "error", err)
	}
	return post, nil
}

// Delete removes a post owned by the current user and refreshes the feed.
func (s *PostService) Delete(ctx context.Context, postID string) error {
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("post feed refresh after delete failed", "error", err)
	}
	return nil
}

// BeginLikeToggle applies the optimistic like flip to a loaded post.
func (s *PostService) BeginLikeToggle(postID string) (feed.ToggleOutcome, bool) {
	post, found := s.pager.Find(postID)
	if !found {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire(postID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: post.Liked, Count: post.LikesCount})
	s.pager.UpdateItem(postID, func(p *domain.Post) *domain.Post {
		p.Liked = outcome.Optimistic.Active
		p.LikesCount = outcome.Optimistic.Count
		return p
	})
	return outcome, true
}

// CompleteLikeToggle resolves the optimistic like against the server.
func (s *PostService) CompleteLikeToggle(ctx context.Context, postID string, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	defer s.inflight.Release(postID)

	active, err := s.repo.TogglePostLike(ctx, postID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("post like toggle failed, rolled back", "postID", postID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.pager.UpdateItem(postID, func(p *domain.Post) *domain.Post {
		p.Liked = final.Active
		p.LikesCount = final.Count
		return p
	})
	return final, err
}
