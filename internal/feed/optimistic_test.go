package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOptimistic(t *testing.T) {
	t.Run("activating increments", func(t *testing.T) {
		o := ApplyOptimistic(ToggleState{Active: false, Count: 5})
		assert.Equal(t, ToggleState{Active: true, Count: 6}, o.Optimistic)
		assert.Equal(t, ToggleState{Active: false, Count: 5}, o.Before)
	})

	t.Run("deactivating decrements", func(t *testing.T) {
		o := ApplyOptimistic(ToggleState{Active: true, Count: 5})
		assert.Equal(t, ToggleState{Active: false, Count: 4}, o.Optimistic)
	})

	t.Run("counter floors at zero", func(t *testing.T) {
		o := ApplyOptimistic(ToggleState{Active: true, Count: 0})
		assert.Equal(t, 0, o.Optimistic.Count)
	})
}

func TestReconcile(t *testing.T) {
	t.Run("server confirms the guess", func(t *testing.T) {
		o := ApplyOptimistic(ToggleState{Active: false, Count: 5})
		final := o.Reconcile(true)
		assert.Equal(t, ToggleState{Active: true, Count: 6}, final)
	})

	t.Run("server contradicts the guess", func(t *testing.T) {
		// User pressed like, but the server says the result is un-liked
		// (e.g. the toggle raced with another device).
		o := ApplyOptimistic(ToggleState{Active: false, Count: 5})
		final := o.Reconcile(false)
		assert.Equal(t, ToggleState{Active: false, Count: 5}, final,
			"counter recomputed from the pre-toggle base, not the guess")
	})

	t.Run("count never drifts when reconciled repeatedly", func(t *testing.T) {
		o := ApplyOptimistic(ToggleState{Active: false, Count: 5})
		first := o.Reconcile(true)
		second := o.Reconcile(true)
		assert.Equal(t, first, second)
	})
}

func TestRollback(t *testing.T) {
	o := ApplyOptimistic(ToggleState{Active: true, Count: 3})
	assert.Equal(t, ToggleState{Active: true, Count: 3}, o.Rollback())
}

func TestInflightSet(t *testing.T) {
	s := NewInflightSet()

	assert.True(t, s.TryAcquire("v1"))
	assert.False(t, s.TryAcquire("v1"), "second toggle on the same item is dropped")
	assert.True(t, s.TryAcquire("v2"), "different items are independent")

	s.Release("v1")
	assert.True(t, s.TryAcquire("v1"))
}
