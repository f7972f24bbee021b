package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests step the prefetcher's cooldown window manually.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPrefetcher(lookahead int, cooldown time.Duration) (*Prefetcher, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewPrefetcher(lookahead, cooldown)
	p.now = clock.now
	return p, clock
}

func TestPrefetcherTrigger(t *testing.T) {
	t.Run("fires once on entering the lookahead zone", func(t *testing.T) {
		p, _ := newTestPrefetcher(8, 400*time.Millisecond)

		assert.False(t, p.ShouldTrigger(20, false, true), "far from end")
		assert.True(t, p.ShouldTrigger(8, false, true), "zone entry fires")
		assert.False(t, p.ShouldTrigger(7, false, true), "still in zone, latched")
		assert.False(t, p.ShouldTrigger(0, false, true), "at the very end, still latched")
	})

	t.Run("leaving the zone re-arms the latch", func(t *testing.T) {
		p, clock := newTestPrefetcher(8, 400*time.Millisecond)

		assert.True(t, p.ShouldTrigger(5, false, true))
		assert.False(t, p.ShouldTrigger(3, false, true))

		// Scroll back up out of the zone, then return after the cooldown
		assert.False(t, p.ShouldTrigger(15, false, true))
		clock.advance(500 * time.Millisecond)
		assert.True(t, p.ShouldTrigger(6, false, true))
	})

	t.Run("cooldown absorbs rapid re-entry", func(t *testing.T) {
		p, clock := newTestPrefetcher(8, 400*time.Millisecond)

		assert.True(t, p.ShouldTrigger(5, false, true))
		assert.False(t, p.ShouldTrigger(15, false, true)) // leave zone
		assert.False(t, p.ShouldTrigger(5, false, true), "re-entry inside cooldown")

		clock.advance(401 * time.Millisecond)
		assert.False(t, p.ShouldTrigger(15, false, true))
		assert.True(t, p.ShouldTrigger(5, false, true), "re-entry after cooldown")
	})

	t.Run("never fires while a fetch is in flight", func(t *testing.T) {
		p, _ := newTestPrefetcher(8, 400*time.Millisecond)
		assert.False(t, p.ShouldTrigger(5, true, true))
	})

	t.Run("never fires when exhausted", func(t *testing.T) {
		p, _ := newTestPrefetcher(8, 400*time.Millisecond)
		assert.False(t, p.ShouldTrigger(5, false, false))
	})

	t.Run("rearm clears the latch without leaving the zone", func(t *testing.T) {
		p, clock := newTestPrefetcher(8, 400*time.Millisecond)

		assert.True(t, p.ShouldTrigger(5, false, true))
		assert.False(t, p.ShouldTrigger(5, false, true))

		// A merged page grew the list; same position may fire again
		p.Rearm()
		clock.advance(500 * time.Millisecond)
		assert.True(t, p.ShouldTrigger(5, false, true))
	})
}
