package api

import "strings"

// Toggle endpoints answer with a human-readable message ("Like added",
// "Unsubscribed", "Video removed from playlist") and no structured boolean.
// The substring is the only authoritative signal of the resulting state.
//
// Negative markers are checked first: "unsubscribed" contains "subscribed".
func toggleStateFromMessage(msg string) (active bool, ok bool) {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "unsub"),
		strings.Contains(m, "removed"),
		strings.Contains(m, "deleted"):
		return false, true
	case strings.Contains(m, "subscribed"),
		strings.Contains(m, "added"),
		strings.Contains(m, "created"),
		strings.Contains(m, "liked"):
		return true, true
	}
	return false, false
}
