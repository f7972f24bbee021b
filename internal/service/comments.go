package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
)

// CommentService drives the comment thread under the watch view. The thread
// is scoped to one video; switching videos resets the pager so a late page
// for the previous thread is discarded.
type CommentService struct {
	repo   domain.CommentRepository
	logger *slog.Logger

	pager    *feed.Pager[*domain.Comment]
	inflight *feed.InflightSet

	mu      sync.Mutex
	videoID string
}

// NewCommentService creates the comment thread service.
func NewCommentService(repo domain.CommentRepository, pageSize int, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CommentService{
		repo:     repo,
		logger:   logger,
		inflight: feed.NewInflightSet(),
	}
	s.pager = feed.NewPager(s.fetch, func(c *domain.Comment) string { return c.ID }, pageSize, logger)
	return s
}

func (s *CommentService) fetch(ctx context.Context, page, limit int) (feed.Page[*domain.Comment], error) {
	s.mu.Lock()
	videoID := s.videoID
	s.mu.Unlock()
	if videoID == "" {
		return feed.Page[*domain.Comment]{}, nil
	}
	return s.repo.ListComments(ctx, videoID, page, limit)
}

// SetVideo scopes the thread to a video, resetting the collection when the
// video changes.
func (s *CommentService) SetVideo(videoID string) {
	s.mu.Lock()
	changed := s.videoID != videoID
	s.videoID = videoID
	s.mu.Unlock()

	if changed {
		s.pager.Reset()
	}
}

// LoadNext fetches and merges the next page of comments.
func (s *CommentService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the thread with a fresh first page.
func (s *CommentService) Refresh(ctx context.Context) error {
	return s.pager.Refresh(ctx)
}

// Snapshot returns the current thread state for rendering.
func (s *CommentService) Snapshot() feed.Snapshot[*domain.Comment] {
	return s.pager.Snapshot()
}

// Busy reports whether a page fetch is in flight.
func (s *CommentService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another page is believed to exist.
func (s *CommentService) HasMore() bool { return s.pager.HasMore() }

// Add posts a new comment and refreshes the thread so the server-assigned
// row replaces any local guess.
func (s *CommentService) Add(ctx context.Context, content string) (*domain.Comment, error) {
	s.mu.Lock()
	videoID := s.videoID
	s.mu.Unlock()

	comment, err := s.repo.AddComment(ctx, videoID, content)
	if err != nil {
		return nil, err
	}
	if err := s.pager.Refresh(ctx); err != nil {
		s.logger.Warn("thread refresh after comment failed", "error", err)
	}
	return comment, nil
}

// Update edits a comment in place.
func (s *CommentService) Update(ctx context.Context, commentID, content string) error {
	updated, err := s.repo.UpdateComment(ctx, commentID, content)
	if err != nil {
		return err
	}
	s.pager.UpdateItem(commentID, func(c *domain.Comment) *domain.Comment {
		c.Content = updated.Content
		c.UpdatedAt = updated.UpdatedAt
		return c
	})
	return nil
}

// Delete removes a comment and refreshes the thread.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if err := s.pager.Refresh(ctx); err != nil {
		s.logger.Warn("thread refresh after delete failed", "error", err)
	}
	return nil
}

// BeginLikeToggle applies the optimistic like flip to a loaded comment.
func (s *CommentService) BeginLikeToggle(commentID string) (feed.ToggleOutcome, bool) {
	comment, found := s.pager.Find(commentID)
	if !found {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire(commentID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: comment.Liked, Count: comment.LikesCount})
	s.pager.UpdateItem(commentID, func(c *domain.Comment) *domain.Comment {
		c.Liked = outcome.Optimistic.Active
		c.LikesCount = outcome.Optimistic.Count
		return c
	})
	return outcome, true
}

// CompleteLikeToggle resolves the optimistic like against the server.
func (s *CommentService) CompleteLikeToggle(ctx context.Context, commentID string, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	defer s.inflight.Release(commentID)

	active, err := s.repo.ToggleCommentLike(ctx, commentID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("comment like toggle failed, rolled back", "commentID", commentID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.pager.UpdateItem(commentID, func(c *domain.Comment) *domain.Comment {
		c.Liked = final.Active
		c.LikesCount = final.Count
		return c
	})
	return final, err
}
