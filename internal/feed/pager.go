package feed

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// FetchFunc loads one page from the backend. Implementations are provided by
// the repository layer; the pager only sequences the calls.
type FetchFunc[T any] func(ctx context.Context, page, limit int) (Page[T], error)

// Snapshot is an immutable copy of pager state handed to the UI layer.
type Snapshot[T any] struct {
	Items        []T
	Page         int // Last successfully loaded page (0 = none yet)
	HasMore      bool
	LoadingFirst bool
	LoadingMore  bool
	Refreshing   bool
	Err          error // Last fetch error, cleared by the next success
}

// Pager owns the incremental load state for one view's collection: current
// page, exhaustion flag, loading flags, and the deduplicated item list.
//
// A single fetch is in flight at a time; LoadNext while busy is dropped, not
// queued. Reset invalidates any in-flight fetch via a request token so a
// stale response can never overwrite newer state. Safe for use from multiple
// goroutines (Bubble Tea commands run concurrently).
type Pager[T any] struct {
	fetch  FetchFunc[T]
	key    func(T) string
	limit  int
	logger *slog.Logger

	// Optional comparator applied after every merge (e.g. playlists sorted
	// by most recently updated). Supersedes insertion order.
	less func(a, b T) bool

	mu         sync.Mutex
	items      []T
	page       int
	hasMore    bool
	inFlight   bool
	refreshing bool
	token      uint64
	lastErr    error
}

// NewPager creates a pager over fetch, deduplicating by key, requesting limit
// items per page.
func NewPager[T any](fetch FetchFunc[T], key func(T) string, limit int, logger *slog.Logger) *Pager[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager[T]{
		fetch:   fetch,
		key:     key,
		limit:   limit,
		logger:  logger,
		hasMore: true,
	}
}

// SortAfterMerge installs a comparator applied to the collection after every
// merge. Pass nil to restore plain insertion order.
func (p *Pager[T]) SortAfterMerge(less func(a, b T) bool) {
	p.mu.Lock()
	p.less = less
	p.mu.Unlock()
}

// LoadNext fetches the next page and merges it into the collection.
// It is a no-op when a fetch is already in flight or the collection is
// exhausted. The returned error is the fetch error, if any; dropped calls
// return nil.
func (p *Pager[T]) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	next := p.page + 1
	token := p.token
	p.inFlight = true
	p.mu.Unlock()

	return p.load(ctx, next, token, false)
}

// Refresh re-fetches the first page, replacing the collection on success.
// Allowed even when the collection is exhausted; dropped while a fetch is in
// flight.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	token := p.token
	p.inFlight = true
	p.refreshing = len(p.items) > 0
	p.mu.Unlock()

	return p.load(ctx, 1, token, true)
}

// load performs the fetch outside the lock and folds the result back in,
// unless the pager was reset while the request was outstanding.
func (p *Pager[T]) load(ctx context.Context, pageNum int, token uint64, replace bool) error {
	result, err := p.fetch(ctx, pageNum, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		// Reset raced with this fetch; the response belongs to a previous
		// identity and must be ignored.
		p.logger.Debug("discarding stale page", "page", pageNum)
		return nil
	}

	p.inFlight = false
	p.refreshing = false

	if err != nil {
		// Collection and page stay exactly as they were: no partial merge.
		p.lastErr = err
		p.logger.Error("page fetch failed", "page", pageNum, "error", err)
		return err
	}

	mode := Append
	if replace || pageNum == 1 {
		mode = Replace
	}
	p.items = Merge(p.items, result.Items, p.key, mode)
	if p.less != nil {
		less := p.less
		sort.SliceStable(p.items, func(i, j int) bool { return less(p.items[i], p.items[j]) })
	}

	p.page = pageNum
	p.hasMore = result.HasMore(p.limit)
	p.lastErr = nil
	p.logger.Debug("page merged", "page", pageNum, "items", len(p.items), "hasMore", p.hasMore)
	return nil
}

// Reset clears the collection and returns the pager to page 1 territory.
// Called when the view's subject (video, playlist, channel, query) changes.
// Any in-flight fetch is invalidated and its response discarded on arrival.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token++
	p.items = nil
	p.page = 0
	p.hasMore = true // optimistic, corrected by the first fetch
	p.inFlight = false
	p.refreshing = false
	p.lastErr = nil
}

// Snapshot returns a copy of the current state for rendering.
func (p *Pager[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]T, len(p.items))
	copy(items, p.items)

	return Snapshot[T]{
		Items:        items,
		Page:         p.page,
		HasMore:      p.hasMore,
		LoadingFirst: p.inFlight && p.page == 0 && !p.refreshing,
		LoadingMore:  p.inFlight && p.page > 0 && !p.refreshing,
		Refreshing:   p.refreshing,
		Err:          p.lastErr,
	}
}

// Busy reports whether a fetch is currently in flight.
func (p *Pager[T]) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// HasMore reports whether another page is believed to exist.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// UpdateItem applies fn to the item with the given key, in place.
// Used by optimistic mutations; no-op if the key is not loaded.
func (p *Pager[T]) UpdateItem(id string, fn func(T) T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, item := range p.items {
		if p.key(item) == id {
			p.items[i] = fn(item)
			return
		}
	}
}

// Find returns the loaded item with the given key.
func (p *Pager[T]) Find(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if p.key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
