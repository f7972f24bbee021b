package service

import (
	"context"
	"log/slog"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/store"
)

// HistoryService drives the watch-history view. History is server-ordered
// (most recent first), so the pager keeps plain insertion order.
type HistoryService struct {
	repo   domain.HistoryRepository
	cache  *store.FeedCache
	logger *slog.Logger

	pager *feed.Pager[*domain.HistoryEntry]
}

// NewHistoryService creates the history service.
func NewHistoryService(repo domain.HistoryRepository, cache *store.FeedCache, pageSize int, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &HistoryService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
	s.pager = feed.NewPager(s.fetch, func(h *domain.HistoryEntry) string { return h.ID }, pageSize, logger)
	return s
}

func (s *HistoryService) fetch(ctx context.Context, page, limit int) (feed.Page[*domain.HistoryEntry], error) {
	return s.repo.ListHistory(ctx, page, limit)
}

// CachedFirstPage returns the locally cached history for painting before
// the network answers.
func (s *HistoryService) CachedFirstPage() []*domain.HistoryEntry {
	if s.cache == nil {
		return nil
	}
	entries, _ := s.cache.GetHistory()
	return entries
}

// LoadNext fetches and merges the next page of history.
func (s *HistoryService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the collection with a fresh first page and re-seeds the
// local cache.
func (s *HistoryService) Refresh(ctx context.Context) error {
	if err := s.pager.Refresh(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		snap := s.pager.Snapshot()
		if len(snap.Items) > 0 {
			if err := s.cache.SaveHistory(snap.Items); err != nil {
				s.logger.Warn("failed to cache history", "error", err)
			}
		}
	}
	return nil
}

// Snapshot returns the history state for rendering.
func (s *HistoryService) Snapshot() feed.Snapshot[*domain.HistoryEntry] {
	return s.pager.Snapshot()
}

// Busy reports whether a page fetch is in flight.
func (s *HistoryService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another page is believed to exist.
func (s *HistoryService) HasMore() bool { return s.pager.HasMore() }

// Clear wipes the watch history on the server and locally. The collection
// empties immediately.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.repo.ClearHistory(ctx); err != nil {
		return err
	}
	s.pager.Reset()
	if s.cache != nil {
		s.cache.ClearHistory()
	}
	s.logger.Info("watch history cleared")
	return nil
}
