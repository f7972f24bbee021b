package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/mvickers/tubetui/internal/domain"
)

// ChannelMatch is a matched channel with the rune positions that matched,
// for highlighting in the picker.
type ChannelMatch struct {
	Channel        *domain.Channel
	MatchedIndexes []int
}

type channelSource []*domain.Channel

func (c channelSource) String(i int) string { return c[i].Handle + " " + c[i].Name }
func (c channelSource) Len() int            { return len(c) }

// PickChannels matches the query against subscribed channels by handle and
// display name, subsequence-style (typing "mkb" matches "mkbhd"). Results
// come back best first. An empty query returns every channel unranked.
func PickChannels(query string, channels []*domain.Channel) []ChannelMatch {
	if query == "" {
		out := make([]ChannelMatch, len(channels))
		for i, ch := range channels {
			out[i] = ChannelMatch{Channel: ch}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, channelSource(channels))
	out := make([]ChannelMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, ChannelMatch{
			Channel:        channels[m.Index],
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return out
}
