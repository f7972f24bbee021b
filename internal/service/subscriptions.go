package service

import (
	"context"
	"log/slog"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/store"
)

// SubscriptionService drives the subscriptions view: the channels the user
// follows, with the unsubscribe toggle applied optimistically in place.
type SubscriptionService struct {
	repo   domain.SubscriptionRepository
	cache  *store.FeedCache
	logger *slog.Logger

	pager    *feed.Pager[*domain.Channel]
	inflight *feed.InflightSet
}

// NewSubscriptionService creates the subscriptions service.
func NewSubscriptionService(repo domain.SubscriptionRepository, cache *store.FeedCache, pageSize int, logger *slog.Logger) *SubscriptionService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SubscriptionService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		inflight: feed.NewInflightSet(),
	}
	s.pager = feed.NewPager(s.fetch, func(c *domain.Channel) string { return c.ID }, pageSize, logger)
	return s
}

func (s *SubscriptionService) fetch(ctx context.Context, page, limit int) (feed.Page[*domain.Channel], error) {
	return s.repo.ListSubscriptions(ctx, page, limit)
}

// CachedFirstPage returns the locally cached channel list.
func (s *SubscriptionService) CachedFirstPage() []*domain.Channel {
	if s.cache == nil {
		return nil
	}
	channels, _ := s.cache.GetSubscriptions()
	return channels
}

// LoadNext fetches and merges the next page of subscriptions.
func (s *SubscriptionService) LoadNext(ctx context.Context) error {
	return s.pager.LoadNext(ctx)
}

// Refresh replaces the collection with a fresh first page and re-seeds the
// local cache.
func (s *SubscriptionService) Refresh(ctx context.Context) error {
	if err := s.pager.Refresh(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		snap := s.pager.Snapshot()
		if len(snap.Items) > 0 {
			if err := s.cache.SaveSubscriptions(snap.Items); err != nil {
				s.logger.Warn("failed to cache subscriptions", "error", err)
			}
		}
	}
	return nil
}

// Snapshot returns the subscriptions state for rendering.
func (s *SubscriptionService) Snapshot() feed.Snapshot[*domain.Channel] {
	return s.pager.Snapshot()
}

// Busy reports whether a page fetch is in flight.
func (s *SubscriptionService) Busy() bool { return s.pager.Busy() }

// HasMore reports whether another page is believed to exist.
func (s *SubscriptionService) HasMore() bool { return s.pager.HasMore() }

// BeginToggle applies the optimistic subscription flip to a loaded channel.
// The row stays in the list even when unsubscribed, so an accidental press
// can be undone without re-finding the channel.
func (s *SubscriptionService) BeginToggle(channelID string) (feed.ToggleOutcome, bool) {
	channel, found := s.pager.Find(channelID)
	if !found {
		return feed.ToggleOutcome{}, false
	}
	if !s.inflight.TryAcquire(channelID) {
		return feed.ToggleOutcome{}, false
	}

	outcome := feed.ApplyOptimistic(feed.ToggleState{Active: channel.Subscribed, Count: channel.SubscriberCount})
	s.pager.UpdateItem(channelID, func(c *domain.Channel) *domain.Channel {
		c.Subscribed = outcome.Optimistic.Active
		c.SubscriberCount = outcome.Optimistic.Count
		return c
	})
	return outcome, true
}

// CompleteToggle resolves the optimistic subscription against the server.
func (s *SubscriptionService) CompleteToggle(ctx context.Context, channelID string, outcome feed.ToggleOutcome) (feed.ToggleState, error) {
	defer s.inflight.Release(channelID)

	active, err := s.repo.ToggleSubscription(ctx, channelID)

	var final feed.ToggleState
	if err != nil {
		final = outcome.Rollback()
		s.logger.Warn("subscription toggle failed, rolled back", "channelID", channelID, "error", err)
	} else {
		final = outcome.Reconcile(active)
	}

	s.pager.UpdateItem(channelID, func(c *domain.Channel) *domain.Channel {
		c.Subscribed = final.Active
		c.SubscriberCount = final.Count
		return c
	})
	return final, err
}
