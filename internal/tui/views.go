package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mvickers/tubetui/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	if m.CurrentView == ViewLogin {
		return m.renderLogin()
	}

	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")

	switch {
	case m.ShowHelp:
		b.WriteString(m.renderHelp())
	case m.CurrentView == ViewWatch:
		b.WriteString(m.renderWatch())
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString(m.renderOverlay())
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderTabBar() string {
	var tabs []string
	for _, v := range tabViews {
		title := viewTitle(v)
		active := v == m.CurrentView ||
			(m.CurrentView == ViewPlaylistVideos && v == ViewPlaylists) ||
			(m.CurrentView == ViewWatch && v == ViewHome)
		if active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(title))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList() string {
	v := m.CurrentView
	list := m.Lists[v]
	busy, hasMore := m.feedState(v)

	var b strings.Builder
	if m.Filtering {
		b.WriteString(styles.AccentStyle.Render(m.FilterInput.View()))
		b.WriteString("\n")
	}
	loadingMore := busy && list.Len() > 0
	if busy && list.Len() == 0 {
		b.WriteString(styles.FooterStyle.Render(spinnerChar(m.SpinnerFrame) + " Loading..."))
		b.WriteString("\n")
	}
	b.WriteString(list.Render(m.Width, hasMore, loadingMore, m.SpinnerFrame))
	return b.String()
}

func (m Model) renderWatch() string {
	var b strings.Builder

	video := m.Svc.Watch.Video()
	if video == nil {
		b.WriteString(styles.DimStyle.Render("  No video open"))
		b.WriteString("\n")
		return b.String()
	}

	heart := styles.UnlikedHeart
	if video.Liked {
		heart = styles.LikedHeart
	}
	b.WriteString(styles.TitleStyle.Render("  " + styles.Truncate(video.Title, m.Width-4)))
	b.WriteString("\n")
	meta := fmt.Sprintf("  %s · %s views · %s %d likes",
		video.OwnerName, video.FormattedViews(), heart, video.LikesCount)
	if channel := m.Svc.Watch.Channel(); channel != nil {
		if channel.Subscribed {
			meta += "  " + styles.SubscribedMark + " subscribed"
		} else {
			meta += "  (s to subscribe)"
		}
	}
	b.WriteString(styles.SubtitleStyle.Render(meta))
	b.WriteString("\n")

	suggestedTitle := "  Up next"
	commentsTitle := "  Comments"
	if m.Pane == paneSuggested {
		suggestedTitle = styles.AccentStyle.Render(suggestedTitle)
		commentsTitle = styles.DimStyle.Render(commentsTitle)
	} else {
		suggestedTitle = styles.DimStyle.Render(suggestedTitle)
		commentsTitle = styles.AccentStyle.Render(commentsTitle)
	}

	b.WriteString(suggestedTitle)
	b.WriteString("\n")
	busy, hasMore := m.feedState(ViewWatch)
	b.WriteString(m.Lists[ViewWatch].Render(m.Width, hasMore, busy, m.SpinnerFrame))

	b.WriteString(commentsTitle)
	b.WriteString("\n")
	busy, hasMore = m.feedState(View(-1))
	b.WriteString(m.commentsList().Render(m.Width, hasMore, busy, m.SpinnerFrame))

	return b.String()
}

// renderOverlay draws the modal row (confirm prompt, text input or playlist
// picker), if any.
func (m Model) renderOverlay() string {
	switch {
	case m.ConfirmPrompt != "":
		prompt := m.ConfirmPrompt + " " + styles.HelpKeyStyle.Render("y") + "/" + styles.HelpKeyStyle.Render("n")
		return styles.ModalStyle.Render(prompt) + "\n"
	case m.InputPurpose != inputNone:
		return styles.ModalStyle.Render(m.Input.View()) + "\n"
	case m.PickingPlaylist:
		return m.renderPlaylistPicker() + "\n"
	}
	return ""
}

func (m Model) renderPlaylistPicker() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Add to playlist"))
	b.WriteString("\n")

	playlists := m.Svc.Playlists.Snapshot().Items
	if len(playlists) == 0 {
		b.WriteString(styles.DimStyle.Render("No playlists yet (n on the Playlists tab creates one)"))
	}
	for i, p := range playlists {
		line := styles.Truncate(p.Name, m.Width-8)
		if i == m.PickIndex {
			b.WriteString(styles.SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + line))
		}
		if i < len(playlists)-1 {
			b.WriteString("\n")
		}
	}
	return styles.ModalStyle.Render(b.String())
}

func (m Model) renderStatusBar() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.StatusErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width-2))
		}
		return styles.StatusBarStyle.Render(styles.Truncate(m.StatusMsg, m.Width-2))
	}

	user := ""
	if u := m.Svc.Session.CurrentUser(); u != nil {
		user = "@" + u.Handle + "  "
	}
	hints := user + "? help · / filter · r refresh · q quit"
	return styles.StatusBarStyle.Render(styles.Truncate(hints, m.Width-2))
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(styles.ModalTitleStyle.Render("  Sign in"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.EmailInput.View())
	b.WriteString("\n")
	b.WriteString("  " + m.PasswordInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("  tab to switch · enter to sign in · ctrl+c to quit"))
	b.WriteString("\n")
	if m.StatusMsg != "" && m.StatusIsErr {
		b.WriteString(styles.ErrorStyle.Render("  " + m.StatusMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	rows := []struct{ k, d string }{
		{"j/k, ↓/↑", "move"},
		{"enter", "open video / playlist / channel"},
		{"tab / shift+tab", "switch tab (or pane in watch view)"},
		{"h, ←", "back"},
		{"/", "filter loaded items; enter on Home searches the server"},
		{"r", "refresh current view"},
		{"l", "like video / comment / post"},
		{"s", "subscribe to channel"},
		{"c", "comment on open video"},
		{"e", "edit own comment"},
		{"a", "add video to playlist"},
		{"p", "channel posts (from Subscriptions)"},
		{"n", "new post / playlist"},
		{"x", "delete (posts, playlists, own comments, history)"},
		{"ctrl+l", "log out"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("  Keys"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString("  ")
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(r.k, 18)))
		b.WriteString(styles.HelpDescStyle.Render(r.d))
		b.WriteString("\n")
	}
	return b.String()
}
