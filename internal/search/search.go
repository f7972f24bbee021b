// Package search filters already-loaded collections locally. It never talks
// to the network; server-side search goes through the video feed's query
// scope instead.
package search

import (
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mvickers/tubetui/internal/domain"
)

// FilterResult is one matched item with its rank metadata.
type FilterResult struct {
	Item  domain.FeedItem
	Score int // Levenshtein distance to the query (lower = better)
}

// Service handles local fuzzy filtering across loaded feed items.
type Service struct {
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FilterLocal ranks the loaded items against the query. Matching is
// case-insensitive and diacritic-insensitive; results come back best first.
// An empty query returns nil (the view shows the unfiltered collection).
func (s *Service) FilterLocal(query string, items []domain.FeedItem) []FilterResult {
	if query == "" || len(items) == 0 {
		return nil
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.GetTitle()
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	results := make([]FilterResult, 0, len(ranks))
	for _, rank := range ranks {
		results = append(results, FilterResult{
			Item:  items[rank.OriginalIndex],
			Score: rank.Distance,
		})
	}

	s.logger.Debug("local filter", "query", query, "candidates", len(items), "matches", len(results))
	return results
}
