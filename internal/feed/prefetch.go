package feed

import (
	"sync"
	"time"
)

const (
	// DefaultLookahead is how many rows before the end of the list the
	// sentinel is considered "visible" and the next page is requested.
	DefaultLookahead = 8

	// DefaultCooldown is the minimum gap between two triggers; rapid
	// re-intersection while scrolling must not double-load a page.
	DefaultCooldown = 400 * time.Millisecond
)

// Prefetcher decides when proximity to the end of a list should kick off the
// next page load. It is edge-triggered: once it fires, the sentinel must
// leave the lookahead zone (or a merge must grow the list) before it can
// fire again, and a cooldown window absorbs bursts of scroll events.
type Prefetcher struct {
	lookahead int
	cooldown  time.Duration
	now       func() time.Time // injectable for tests

	mu        sync.Mutex
	inZone    bool
	lastFired time.Time
}

// NewPrefetcher creates a prefetcher with the given lookahead (rows from the
// end) and cooldown. Zero values fall back to the defaults.
func NewPrefetcher(lookahead int, cooldown time.Duration) *Prefetcher {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Prefetcher{
		lookahead: lookahead,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// ShouldTrigger is called on every scroll/cursor movement with the distance
// (in rows) between the viewport position and the end of the loaded list,
// plus the pager's current state. It returns true at most once per entry
// into the lookahead zone, and never while a fetch is in flight, the list is
// exhausted, or the cooldown has not elapsed.
func (p *Prefetcher) ShouldTrigger(distanceFromEnd int, busy, hasMore bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if distanceFromEnd > p.lookahead {
		p.inZone = false
		return false
	}

	if busy || !hasMore {
		return false
	}
	if p.inZone {
		return false
	}
	now := p.now()
	if now.Sub(p.lastFired) < p.cooldown {
		return false
	}

	p.inZone = true
	p.lastFired = now
	return true
}

// Rearm clears the edge-trigger latch. Called after a page merge grows the
// list, so the (now further away) sentinel can fire again.
func (p *Prefetcher) Rearm() {
	p.mu.Lock()
	p.inZone = false
	p.mu.Unlock()
}
