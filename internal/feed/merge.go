package feed

// Mode selects how an incoming page is folded into the existing collection.
type Mode int

const (
	// Replace discards the previous collection entirely (first page, refresh).
	Replace Mode = iota

	// Append deduplicates by key: items already present are updated in place
	// at their first-seen position, new items are appended in incoming order.
	Append
)

// Merge combines a previous ordered collection with a newly fetched page.
//
// In Append mode an item that reappears in a later page (possible when
// server-side pagination shifts under concurrent writes) overwrites the
// earlier copy instead of duplicating it; its position stays at the first
// insertion point. Every key appears at most once in the result.
func Merge[T any](prev, incoming []T, key func(T) string, mode Mode) []T {
	if mode == Replace {
		out := make([]T, len(incoming))
		copy(out, incoming)
		return out
	}

	index := make(map[string]int, len(prev)+len(incoming))
	out := make([]T, 0, len(prev)+len(incoming))

	for _, item := range prev {
		k := key(item)
		if at, ok := index[k]; ok {
			out[at] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	for _, item := range incoming {
		k := key(item)
		if at, ok := index[k]; ok {
			out[at] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}

	return out
}
