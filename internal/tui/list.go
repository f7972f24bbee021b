package tui

import (
	"strings"
	"time"

	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/tui/styles"
)

// listModel is a scrolling cursor over one view's loaded items, with the
// near-end prefetch latch attached. Items are whatever the owning service
// last snapshotted; the list never loads anything itself, it only reports
// when the cursor gets close enough to the end to warrant the next page.
type listModel struct {
	items    []domain.FeedItem
	cursor   int
	offset   int
	height   int
	prefetch *feed.Prefetcher
}

func newListModel(lookahead int, cooldown time.Duration) listModel {
	return listModel{
		prefetch: feed.NewPrefetcher(lookahead, cooldown),
	}
}

// SetItems replaces the backing slice, keeping the cursor on a valid row.
func (l *listModel) SetItems(items []domain.FeedItem) {
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

func (l *listModel) SetHeight(h int) {
	l.height = h
	l.clampOffset()
}

func (l *listModel) Selected() domain.FeedItem {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return nil
	}
	return l.items[l.cursor]
}

func (l *listModel) Len() int { return len(l.items) }

func (l *listModel) MoveUp()   { l.moveTo(l.cursor - 1) }
func (l *listModel) MoveDown() { l.moveTo(l.cursor + 1) }

func (l *listModel) HalfPageUp()   { l.moveTo(l.cursor - l.height/2) }
func (l *listModel) HalfPageDown() { l.moveTo(l.cursor + l.height/2) }

func (l *listModel) Top()    { l.moveTo(0) }
func (l *listModel) Bottom() { l.moveTo(len(l.items) - 1) }

func (l *listModel) moveTo(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(l.items) {
		i = len(l.items) - 1
	}
	if i < 0 {
		i = 0
	}
	l.cursor = i
	l.clampOffset()
}

func (l *listModel) clampOffset() {
	if l.height <= 0 {
		l.offset = 0
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// ShouldPrefetch reports whether the cursor position warrants fetching the
// next page. One true per zone entry; re-arms when the cursor backs out.
func (l *listModel) ShouldPrefetch(busy, hasMore bool) bool {
	distance := len(l.items) - 1 - l.cursor
	return l.prefetch.ShouldTrigger(distance, busy, hasMore)
}

// Rearm re-enables the prefetch latch after a page lands.
func (l *listModel) Rearm() { l.prefetch.Rearm() }

// Render draws the visible window plus the footer row. The footer shows the
// loading state of the incremental fetch, or where the feed ends.
func (l *listModel) Render(width int, hasMore, loadingMore bool, spinnerFrame int) string {
	var b strings.Builder

	if len(l.items) == 0 {
		b.WriteString(styles.DimStyle.Render("  Nothing here yet"))
		b.WriteString("\n")
		return b.String()
	}

	end := l.offset + l.height
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := l.offset; i < end; i++ {
		item := l.items[i]
		title := styles.Truncate(item.GetTitle(), width-4)
		desc := styles.Truncate(item.GetDescription(), width-6)

		if i == l.cursor {
			b.WriteString(styles.SelectedItemStyle.Render("▸ " + title))
			b.WriteString("\n")
			b.WriteString(styles.SelectedItemStyle.Render("  " + desc))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + title))
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render("    " + desc))
		}
		b.WriteString("\n")
	}

	switch {
	case loadingMore:
		b.WriteString(styles.FooterStyle.Render(spinnerChar(spinnerFrame) + " Loading more..."))
	case !hasMore:
		b.WriteString(styles.FooterStyle.Render("— End of feed —"))
	}
	b.WriteString("\n")

	return b.String()
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerChar(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}
