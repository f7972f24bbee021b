// Package feed implements the incremental list synchronization pattern shared
// by every paged view: normalized pages, key-deduplicated merging, a guarded
// pager state machine, proximity-triggered prefetch, and optimistic toggles.
package feed

// Page is one fetched page of a remote collection, already normalized from
// whatever envelope the server wrapped it in.
type Page[T any] struct {
	Items       []T
	Page        int   // 1-based page number as reported (or requested)
	TotalPages  int   // 0 when the server did not report it
	HasNextPage *bool // nil when the server did not report it
}

// HasMore reports whether another page should be requested.
//
// Policy, strongest signal first:
//  1. server-reported HasNextPage
//  2. Page < TotalPages
//  3. a full page (len(Items) == limit) implies more may exist
func (p Page[T]) HasMore(limit int) bool {
	if p.HasNextPage != nil {
		return *p.HasNextPage
	}
	if p.TotalPages > 0 {
		return p.Page < p.TotalPages
	}
	return limit > 0 && len(p.Items) == limit
}
