package feed

import "sync"

// ToggleState is the shadowed pair an optimistic toggle mutates: the boolean
// (liked, subscribed, in-playlist) and its associated counter.
type ToggleState struct {
	Active bool
	Count  int
}

// ToggleOutcome carries everything needed to reconcile or roll back once the
// server answers.
type ToggleOutcome struct {
	Before     ToggleState // State at the moment the user acted
	Optimistic ToggleState // What was applied locally
}

// ApplyOptimistic computes the immediate local state for a toggle: flip the
// boolean and move the counter by exactly one, floored at zero.
func ApplyOptimistic(before ToggleState) ToggleOutcome {
	next := ToggleState{Active: !before.Active}
	if next.Active {
		next.Count = before.Count + 1
	} else {
		next.Count = max(before.Count-1, 0)
	}
	return ToggleOutcome{Before: before, Optimistic: next}
}

// Reconcile corrects the optimistic guess against the server's authoritative
// resulting state. The counter is recomputed from the pre-toggle base plus
// the confirmed direction, never re-derived from the optimistic value, so a
// wrong guess cannot double-count.
func (o ToggleOutcome) Reconcile(serverActive bool) ToggleState {
	next := ToggleState{Active: serverActive}
	switch {
	case serverActive && !o.Before.Active:
		next.Count = o.Before.Count + 1
	case !serverActive && o.Before.Active:
		next.Count = max(o.Before.Count-1, 0)
	default:
		// Server says nothing changed; keep the original counter.
		next.Count = o.Before.Count
	}
	return next
}

// Rollback restores the exact pre-toggle state after a failed mutation.
func (o ToggleOutcome) Rollback() ToggleState {
	return o.Before
}

// InflightSet serializes optimistic mutations per item: a second toggle on
// the same key while the first is outstanding is dropped, not queued.
// Different keys are independent.
type InflightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInflightSet creates an empty in-flight tracker.
func NewInflightSet() *InflightSet {
	return &InflightSet{keys: make(map[string]struct{})}
}

// TryAcquire marks key as in flight. Returns false if it already is.
func (s *InflightSet) TryAcquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.keys[key]; busy {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Release clears the in-flight mark for key.
func (s *InflightSet) Release(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}
