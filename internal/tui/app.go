package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvickers/tubetui/internal/config"
	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/search"
	"github.com/mvickers/tubetui/internal/service"
)

// View identifies which screen is active
type View int

const (
	ViewLogin View = iota
	ViewHome
	ViewSubscriptions
	ViewPlaylists
	ViewPlaylistVideos
	ViewHistory
	ViewPosts
	ViewWatch
)

// tabs shown in the tab bar, in order
var tabViews = []View{ViewHome, ViewSubscriptions, ViewPlaylists, ViewHistory, ViewPosts}

func viewTitle(v View) string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewSubscriptions:
		return "Subscriptions"
	case ViewPlaylists:
		return "Playlists"
	case ViewPlaylistVideos:
		return "Playlist"
	case ViewHistory:
		return "History"
	case ViewPosts:
		return "Posts"
	case ViewWatch:
		return "Watch"
	default:
		return "Login"
	}
}

// watchPane selects which list has focus inside the watch view
type watchPane int

const (
	paneSuggested watchPane = iota
	paneComments
)

// inputPurpose says what the text input modal is collecting
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputComment
	inputEditComment
	inputNewPost
	inputNewPlaylist
)

// Services bundles everything the TUI talks to
type Services struct {
	Session   *service.SessionService
	Videos    *service.VideoFeedService
	Watch     *service.WatchService
	Comments  *service.CommentService
	Playlists *service.PlaylistService
	History   *service.HistoryService
	Posts     *service.PostService
	Subs      *service.SubscriptionService
	Search    *search.Service
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Svc Services
	Cfg *config.Config

	CurrentView View
	Pane        watchPane

	// One list per scrollable view
	Lists map[View]*listModel

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
	ShowHelp     bool

	// Local filter ("/" on any list view)
	Filtering   bool
	FilterInput textinput.Model

	// Text input modal (comment, new post, new playlist)
	InputPurpose  inputPurpose
	Input         textinput.Model
	EditCommentID string

	// Playlist picker ("a" on a video row)
	PickingPlaylist bool
	PickIndex       int
	PickVideoID     string

	// Pending destructive action awaiting y/n
	ConfirmPrompt string
	ConfirmCmd    tea.Cmd

	// Login form
	EmailInput    textinput.Model
	PasswordInput textinput.Model
	LoginFocus    int

	authCh <-chan service.AuthEvent
}

// NewModel creates the application model. loggedIn decides whether to land
// on the home feed or the login form.
func NewModel(svc Services, cfg *config.Config, loggedIn bool) Model {
	lookahead := cfg.Feed.Lookahead
	cooldown := time.Duration(cfg.Feed.CooldownMS) * time.Millisecond

	lists := make(map[View]*listModel)
	for _, v := range []View{ViewHome, ViewSubscriptions, ViewPlaylists, ViewPlaylistVideos, ViewHistory, ViewPosts, ViewWatch} {
		l := newListModel(lookahead, cooldown)
		lists[v] = &l
	}
	// The comment thread scrolls independently of the suggested list
	comments := newListModel(lookahead, cooldown)
	lists[View(-1)] = &comments

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"

	input := textinput.New()
	input.CharLimit = 500

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	view := ViewLogin
	if loggedIn {
		view = ViewHome
	}

	authCh, _ := svc.Session.Subscribe()

	return Model{
		Svc:           svc,
		Cfg:           cfg,
		CurrentView:   view,
		Lists:         lists,
		FilterInput:   filter,
		Input:         input,
		EmailInput:    email,
		PasswordInput: password,
		authCh:        authCh,
	}
}

// commentsList returns the comment thread's list (stored under a reserved
// key because the watch view owns two lists).
func (m *Model) commentsList() *listModel { return m.Lists[View(-1)] }

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		TickCmd(100 * time.Millisecond),
		WaitAuthCmd(m.authCh),
	}
	if m.CurrentView == ViewHome {
		m.seedFromCache()
		cmds = append(cmds,
			RevalidateCmd(m.Svc.Session),
			LoadFeedCmd(ViewHome, m.Svc.Videos.Refresh),
		)
	}
	return tea.Batch(cmds...)
}

// seedFromCache paints cached first pages before the network answers.
func (m Model) seedFromCache() {
	if videos := m.Svc.Videos.CachedFirstPage(); len(videos) > 0 {
		m.Lists[ViewHome].SetItems(toFeedItems(videos))
	}
	if channels := m.Svc.Subs.CachedFirstPage(); len(channels) > 0 {
		m.Lists[ViewSubscriptions].SetItems(toFeedItems(channels))
	}
	if playlists := m.Svc.Playlists.CachedFirstPage(); len(playlists) > 0 {
		m.Lists[ViewPlaylists].SetItems(toFeedItems(playlists))
	}
	if entries := m.Svc.History.CachedFirstPage(); len(entries) > 0 {
		m.Lists[ViewHistory].SetItems(toFeedItems(entries))
	}
	if posts := m.Svc.Posts.CachedFirstPage(); len(posts) > 0 {
		m.Lists[ViewPosts].SetItems(toFeedItems(posts))
	}
}

func toFeedItems[T domain.FeedItem](items []T) []domain.FeedItem {
	out := make([]domain.FeedItem, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case FeedLoadedMsg:
		return m.handleFeedLoaded(msg.View)

	case VideoOpenedMsg:
		m.CurrentView = ViewWatch
		m.Pane = paneSuggested
		m.Svc.Comments.SetVideo(msg.Video.ID)
		return m, tea.Batch(
			LoadFeedCmd(ViewWatch, m.Svc.Watch.LoadMoreSuggested),
			LoadFeedCmd(View(-1), m.Svc.Comments.LoadNext),
		)

	case ChannelLoadedMsg:
		return m, nil

	case ToggleDoneMsg:
		return m.handleToggleDone(msg)

	case CommentPostedMsg:
		return m.status("Comment posted", false, LoadFeedCmd(View(-1), m.Svc.Comments.Refresh))

	case CommentDeletedMsg:
		return m.status("Comment deleted", false, LoadFeedCmd(View(-1), m.Svc.Comments.Refresh))

	case CommentUpdatedMsg:
		return m.status("Comment updated", false, LoadFeedCmd(View(-1), m.Svc.Comments.Refresh))

	case VideoAddedToPlaylistMsg:
		model, cmd := m.handleFeedLoaded(ViewPlaylists)
		m2 := model.(Model)
		return m2.status("Added to playlist", false, cmd)

	case VideoRemovedFromPlaylistMsg:
		model, cmd := m.handleFeedLoaded(ViewPlaylists)
		m2 := model.(Model)
		model, cmd2 := m2.handleFeedLoaded(ViewPlaylistVideos)
		m2 = model.(Model)
		return m2.status("Removed from playlist", false, tea.Batch(cmd, cmd2))

	case PlaylistCreatedMsg:
		return m.status("Playlist created", false, LoadFeedCmd(ViewPlaylists, m.Svc.Playlists.Refresh))

	case PlaylistDeletedMsg:
		return m.status("Playlist deleted", false, LoadFeedCmd(ViewPlaylists, m.Svc.Playlists.Refresh))

	case PostCreatedMsg:
		return m.status("Post published", false, LoadFeedCmd(ViewPosts, m.Svc.Posts.Refresh))

	case PostDeletedMsg:
		return m.status("Post deleted", false, LoadFeedCmd(ViewPosts, m.Svc.Posts.Refresh))

	case HistoryClearedMsg:
		m.Lists[ViewHistory].SetItems(nil)
		return m.status("History cleared", false, nil)

	case LoginDoneMsg:
		if msg.Err != nil {
			return m.status("Login failed: "+msg.Err.Error(), true, nil)
		}
		m.CurrentView = ViewHome
		m.PasswordInput.SetValue("")
		return m, tea.Batch(
			LoadFeedCmd(ViewHome, m.Svc.Videos.Refresh),
			LoadFeedCmd(ViewSubscriptions, m.Svc.Subs.Refresh),
			LoadFeedCmd(ViewPlaylists, m.Svc.Playlists.Refresh),
		)

	case AuthChangedMsg:
		cmd := WaitAuthCmd(m.authCh)
		if !msg.Event.LoggedIn && m.CurrentView != ViewLogin {
			// Session died out from under us: every user-scoped view is
			// now invalid.
			for _, l := range m.Lists {
				l.SetItems(nil)
			}
			m.CurrentView = ViewLogin
			m.EmailInput.Focus()
			m.LoginFocus = 0
			return m.status("Session expired, please sign in again", true, cmd)
		}
		return m, cmd

	case ErrMsg:
		if m.Svc.Session.HandleError(msg.Err) {
			// Expire already broadcast; the AuthChangedMsg redirects us.
			return m, nil
		}
		return m.status(msg.Error(), true, nil)

	case StatusMsg:
		return m.status(msg.Message, msg.IsError, nil)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// status sets the status bar and schedules its clearing.
func (m Model) status(text string, isErr bool, extra tea.Cmd) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	clear := ClearStatusCmd(4 * time.Second)
	if extra != nil {
		return m, tea.Batch(extra, clear)
	}
	return m, clear
}

func (m *Model) updateLayout() {
	// Two rendered lines per row, minus tab bar, header and status bar
	rows := (m.Height - 4) / 2
	if rows < 1 {
		rows = 1
	}
	for _, l := range m.Lists {
		l.SetHeight(rows)
	}
	// Watch view splits vertical space between suggested and comments
	half := rows / 2
	if half < 1 {
		half = 1
	}
	m.Lists[ViewWatch].SetHeight(half)
	m.commentsList().SetHeight(half)
}

// handleFeedLoaded re-snapshots the service backing a view into its list.
func (m Model) handleFeedLoaded(v View) (tea.Model, tea.Cmd) {
	var busy, hasMore bool
	var errText string

	switch v {
	case ViewHome:
		snap := m.Svc.Videos.Snapshot()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Videos.Busy(), snap.HasMore
		if snap.Err != nil {
			errText = snap.Err.Error()
		}
	case ViewSubscriptions:
		snap := m.Svc.Subs.Snapshot()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Subs.Busy(), snap.HasMore
	case ViewPlaylists:
		snap := m.Svc.Playlists.Snapshot()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Playlists.Busy(), snap.HasMore
	case ViewPlaylistVideos:
		snap := m.Svc.Playlists.Videos()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Playlists.VideosBusy(), snap.HasMore
	case ViewHistory:
		snap := m.Svc.History.Snapshot()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.History.Busy(), snap.HasMore
	case ViewPosts:
		snap := m.Svc.Posts.Snapshot()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Posts.Busy(), snap.HasMore
	case ViewWatch:
		snap := m.Svc.Watch.Suggested()
		m.Lists[v].SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Watch.SuggestedBusy(), snap.HasMore
	case View(-1):
		snap := m.Svc.Comments.Snapshot()
		m.commentsList().SetItems(toFeedItems(snap.Items))
		busy, hasMore = m.Svc.Comments.Busy(), snap.HasMore
	}

	if errText != "" {
		return m.status(errText, true, nil)
	}

	// The merge may have left the cursor still inside the lookahead zone
	// (short page); re-arm and fire again if so.
	list := m.Lists[v]
	list.Rearm()
	if list.ShouldPrefetch(busy, hasMore) {
		return m, m.loadNextCmd(v)
	}
	return m, nil
}

// loadNextCmd maps a view to its next-page command.
func (m Model) loadNextCmd(v View) tea.Cmd {
	switch v {
	case ViewHome:
		return LoadFeedCmd(v, m.Svc.Videos.LoadNext)
	case ViewSubscriptions:
		return LoadFeedCmd(v, m.Svc.Subs.LoadNext)
	case ViewPlaylists:
		return LoadFeedCmd(v, m.Svc.Playlists.LoadNext)
	case ViewPlaylistVideos:
		return LoadFeedCmd(v, m.Svc.Playlists.LoadMoreVideos)
	case ViewHistory:
		return LoadFeedCmd(v, m.Svc.History.LoadNext)
	case ViewPosts:
		return LoadFeedCmd(v, m.Svc.Posts.LoadNext)
	case ViewWatch:
		return LoadFeedCmd(v, m.Svc.Watch.LoadMoreSuggested)
	case View(-1):
		return LoadFeedCmd(v, m.Svc.Comments.LoadNext)
	}
	return nil
}

// refreshCmd maps a view to its refresh command.
func (m Model) refreshCmd(v View) tea.Cmd {
	switch v {
	case ViewHome:
		return LoadFeedCmd(v, m.Svc.Videos.Refresh)
	case ViewSubscriptions:
		return LoadFeedCmd(v, m.Svc.Subs.Refresh)
	case ViewPlaylists:
		return LoadFeedCmd(v, m.Svc.Playlists.Refresh)
	case ViewHistory:
		return LoadFeedCmd(v, m.Svc.History.Refresh)
	case ViewPosts:
		return LoadFeedCmd(v, m.Svc.Posts.Refresh)
	case ViewWatch:
		return LoadFeedCmd(View(-1), m.Svc.Comments.Refresh)
	}
	return nil
}

// handleToggleDone reflects the reconciled toggle state in the UI.
func (m Model) handleToggleDone(msg ToggleDoneMsg) (tea.Model, tea.Cmd) {
	// The services already wrote the final state into their collections;
	// re-snapshot the affected view so the rows repaint.
	var v View
	switch msg.Kind {
	case ToggleVideoLike:
		v = ViewHome
	case ToggleWatchLike, ToggleWatchSubscribe:
		v = ViewWatch
	case ToggleCommentLike:
		v = View(-1)
	case TogglePostLike:
		v = ViewPosts
	case ToggleSubscribe:
		v = ViewSubscriptions
	}

	model, cmd := m.handleFeedLoaded(v)
	if msg.Err != nil {
		if m.Svc.Session.HandleError(msg.Err) {
			return model, cmd
		}
		m2 := model.(Model)
		return m2.status("Action failed, reverted", true, cmd)
	}
	return model, cmd
}

// activeList returns the list the cursor keys currently drive.
func (m *Model) activeList() *listModel {
	if m.CurrentView == ViewWatch && m.Pane == paneComments {
		return m.commentsList()
	}
	return m.Lists[m.CurrentView]
}

// activeFeedView is the view key for prefetch/load purposes.
func (m *Model) activeFeedView() View {
	if m.CurrentView == ViewWatch && m.Pane == paneComments {
		return View(-1)
	}
	return m.CurrentView
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal states eat all keys first
	if m.ConfirmPrompt != "" {
		return m.handleConfirmKey(msg)
	}
	if m.InputPurpose != inputNone {
		return m.handleInputKey(msg)
	}
	if m.CurrentView == ViewLogin {
		return m.handleLoginKey(msg)
	}
	if m.Filtering {
		return m.handleFilterKey(msg)
	}
	if m.PickingPlaylist {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		m.ShowHelp = false
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.activeList().MoveUp()
		return m, nil

	case key.Matches(msg, Keys.Down):
		return m.moveDown()

	case key.Matches(msg, Keys.HalfUp):
		m.activeList().HalfPageUp()
		return m, nil

	case key.Matches(msg, Keys.HalfDown):
		m.activeList().HalfPageDown()
		return m.afterCursorMove()

	case key.Matches(msg, Keys.Home):
		m.activeList().Top()
		return m, nil

	case key.Matches(msg, Keys.End):
		m.activeList().Bottom()
		return m.afterCursorMove()

	case key.Matches(msg, Keys.NextTab):
		return m.switchTab(1)

	case key.Matches(msg, Keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, Keys.Refresh):
		return m, m.refreshCmd(m.CurrentView)

	case key.Matches(msg, Keys.Filter):
		m.Filtering = true
		m.FilterInput.SetValue("")
		m.FilterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Logout):
		return m.confirm("Log out?", LogoutCmd(m.Svc.Session))
	}

	return m.handleViewKey(msg)
}

// moveDown advances the cursor and runs the prefetch check: this is the
// scroll event that stands in for the sentinel becoming visible.
func (m Model) moveDown() (tea.Model, tea.Cmd) {
	m.activeList().MoveDown()
	return m.afterCursorMove()
}

func (m Model) afterCursorMove() (tea.Model, tea.Cmd) {
	v := m.activeFeedView()
	list := m.activeList()

	busy, hasMore := m.feedState(v)
	if list.ShouldPrefetch(busy, hasMore) {
		return m, m.loadNextCmd(v)
	}
	return m, nil
}

func (m Model) feedState(v View) (busy, hasMore bool) {
	switch v {
	case ViewHome:
		return m.Svc.Videos.Busy(), m.Svc.Videos.HasMore()
	case ViewSubscriptions:
		return m.Svc.Subs.Busy(), m.Svc.Subs.HasMore()
	case ViewPlaylists:
		return m.Svc.Playlists.Busy(), m.Svc.Playlists.HasMore()
	case ViewPlaylistVideos:
		return m.Svc.Playlists.VideosBusy(), m.Svc.Playlists.VideosHasMore()
	case ViewHistory:
		return m.Svc.History.Busy(), m.Svc.History.HasMore()
	case ViewPosts:
		return m.Svc.Posts.Busy(), m.Svc.Posts.HasMore()
	case ViewWatch:
		return m.Svc.Watch.SuggestedBusy(), m.Svc.Watch.SuggestedHasMore()
	case View(-1):
		return m.Svc.Comments.Busy(), m.Svc.Comments.HasMore()
	}
	return false, false
}

func (m Model) switchTab(dir int) (tea.Model, tea.Cmd) {
	current := 0
	for i, v := range tabViews {
		if v == m.CurrentView {
			current = i
			break
		}
	}
	next := (current + dir + len(tabViews)) % len(tabViews)
	m.CurrentView = tabViews[next]

	// First visit loads the first page; repeat visits keep loaded state
	if m.Lists[m.CurrentView].Len() == 0 {
		return m, m.loadNextCmd(m.CurrentView)
	}
	return m, nil
}

// handleViewKey handles keys that mean something only in a specific view.
func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.CurrentView {
	case ViewHome, ViewHistory, ViewPlaylistVideos:
		return m.handleVideoListKey(msg)
	case ViewSubscriptions:
		return m.handleSubscriptionsKey(msg)
	case ViewPlaylists:
		return m.handlePlaylistsKey(msg)
	case ViewPosts:
		return m.handlePostsKey(msg)
	case ViewWatch:
		return m.handleWatchKey(msg)
	}
	return m, nil
}

func (m Model) handleVideoListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.activeList().Selected()

	switch {
	case key.Matches(msg, Keys.Enter):
		if selected == nil {
			return m, nil
		}
		return m, OpenVideoCmd(m.Svc.Watch, selected.GetID())

	case key.Matches(msg, Keys.Like):
		if m.CurrentView != ViewHome || selected == nil {
			return m, nil
		}
		id := selected.GetID()
		outcome, ok := m.Svc.Videos.BeginLikeToggle(id)
		if !ok {
			return m, nil
		}
		model, _ := m.handleFeedLoaded(ViewHome)
		m2 := model.(Model)
		return m2, CompleteToggleCmd(ToggleVideoLike, id, func(ctx context.Context) (feed.ToggleState, error) {
			return m2.Svc.Videos.CompleteLikeToggle(ctx, id, outcome)
		})

	case key.Matches(msg, Keys.AddToPlaylist):
		if selected == nil {
			return m, nil
		}
		return m.openPlaylistPicker(selected.GetID())

	case key.Matches(msg, Keys.Delete):
		if m.CurrentView == ViewHistory {
			return m.confirm("Clear entire watch history?", ClearHistoryCmd(m.Svc.History))
		}
		if m.CurrentView == ViewPlaylistVideos && selected != nil {
			return m.confirm("Remove \""+selected.GetTitle()+"\" from playlist?",
				RemoveFromPlaylistCmd(m.Svc.Playlists, m.Svc.Playlists.OpenID(), selected.GetID()))
		}
		return m, nil

	case key.Matches(msg, Keys.Back):
		if m.CurrentView == ViewPlaylistVideos {
			m.CurrentView = ViewPlaylists
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleSubscriptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.Lists[ViewSubscriptions].Selected()
	if selected == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Enter):
		// Browse the channel's uploads in the home list
		m.Svc.Videos.SetScope("", selected.GetID())
		m.CurrentView = ViewHome
		return m, LoadFeedCmd(ViewHome, m.Svc.Videos.Refresh)

	case key.Matches(msg, Keys.ChannelPosts):
		m.Svc.Posts.SetChannel(selected.GetID())
		m.CurrentView = ViewPosts
		return m, LoadFeedCmd(ViewPosts, m.Svc.Posts.Refresh)

	case key.Matches(msg, Keys.Subscribe):
		id := selected.GetID()
		outcome, ok := m.Svc.Subs.BeginToggle(id)
		if !ok {
			return m, nil
		}
		model, _ := m.handleFeedLoaded(ViewSubscriptions)
		m2 := model.(Model)
		return m2, CompleteToggleCmd(ToggleSubscribe, id, func(ctx context.Context) (feed.ToggleState, error) {
			return m2.Svc.Subs.CompleteToggle(ctx, id, outcome)
		})
	}
	return m, nil
}

func (m Model) handlePlaylistsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.Lists[ViewPlaylists].Selected()

	switch {
	case key.Matches(msg, Keys.Enter):
		if selected == nil {
			return m, nil
		}
		m.Svc.Playlists.Open(selected.GetID())
		m.CurrentView = ViewPlaylistVideos
		return m, m.loadNextCmd(ViewPlaylistVideos)

	case key.Matches(msg, Keys.New):
		m.InputPurpose = inputNewPlaylist
		m.Input.SetValue("")
		m.Input.Placeholder = "playlist name"
		m.Input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Delete):
		if selected == nil {
			return m, nil
		}
		return m.confirm("Delete playlist \""+selected.GetTitle()+"\"?",
			DeletePlaylistCmd(m.Svc.Playlists, selected.GetID()))
	}
	return m, nil
}

func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.Lists[ViewPosts].Selected()

	switch {
	case key.Matches(msg, Keys.Back):
		// Drop back from a channel's posts to the combined feed
		if m.Svc.Posts.Channel() != "" {
			m.Svc.Posts.SetChannel("")
			return m, LoadFeedCmd(ViewPosts, m.Svc.Posts.Refresh)
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		if selected == nil {
			return m, nil
		}
		id := selected.GetID()
		outcome, ok := m.Svc.Posts.BeginLikeToggle(id)
		if !ok {
			return m, nil
		}
		model, _ := m.handleFeedLoaded(ViewPosts)
		m2 := model.(Model)
		return m2, CompleteToggleCmd(TogglePostLike, id, func(ctx context.Context) (feed.ToggleState, error) {
			return m2.Svc.Posts.CompleteLikeToggle(ctx, id, outcome)
		})

	case key.Matches(msg, Keys.New):
		m.InputPurpose = inputNewPost
		m.Input.SetValue("")
		m.Input.Placeholder = "say something"
		m.Input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Delete):
		if selected == nil {
			return m, nil
		}
		return m.confirm("Delete this post?", DeletePostCmd(m.Svc.Posts, selected.GetID()))
	}
	return m, nil
}

func (m Model) handleWatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		m.CurrentView = ViewHome
		return m, nil

	case key.Matches(msg, Keys.NextTab), key.Matches(msg, Keys.PrevTab):
		if m.Pane == paneSuggested {
			m.Pane = paneComments
		} else {
			m.Pane = paneSuggested
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.Pane == paneSuggested {
			if selected := m.Lists[ViewWatch].Selected(); selected != nil {
				return m, OpenVideoCmd(m.Svc.Watch, selected.GetID())
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		if m.Pane == paneComments {
			return m.toggleCommentLike()
		}
		video := m.Svc.Watch.Video()
		if video == nil {
			return m, nil
		}
		outcome, ok := m.Svc.Watch.BeginLikeToggle()
		if !ok {
			return m, nil
		}
		return m, CompleteToggleCmd(ToggleWatchLike, video.ID, func(ctx context.Context) (feed.ToggleState, error) {
			return m.Svc.Watch.CompleteLikeToggle(ctx, outcome)
		})

	case key.Matches(msg, Keys.Subscribe):
		if m.Svc.Watch.Channel() == nil {
			video := m.Svc.Watch.Video()
			if video == nil || video.OwnerHandle == "" {
				return m, nil
			}
			return m, LoadChannelCmd(m.Svc.Watch, video.OwnerHandle)
		}
		outcome, ok := m.Svc.Watch.BeginSubscribeToggle()
		if !ok {
			return m, nil
		}
		id := m.Svc.Watch.Channel().ID
		return m, CompleteToggleCmd(ToggleWatchSubscribe, id, func(ctx context.Context) (feed.ToggleState, error) {
			return m.Svc.Watch.CompleteSubscribeToggle(ctx, outcome)
		})

	case key.Matches(msg, Keys.Comment):
		m.InputPurpose = inputComment
		m.Input.SetValue("")
		m.Input.Placeholder = "add a comment"
		m.Input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Edit):
		if m.Pane != paneComments {
			return m, nil
		}
		selected := m.commentsList().Selected()
		if selected == nil {
			return m, nil
		}
		c, ok := selected.(*domain.Comment)
		if !ok {
			return m, nil
		}
		if !c.IsMine {
			return m.status("Not your comment", true, nil)
		}
		m.InputPurpose = inputEditComment
		m.EditCommentID = c.ID
		m.Input.SetValue(c.Content)
		m.Input.Placeholder = "edit comment"
		m.Input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.AddToPlaylist):
		if m.Pane == paneSuggested {
			if selected := m.Lists[ViewWatch].Selected(); selected != nil {
				return m.openPlaylistPicker(selected.GetID())
			}
		}
		if video := m.Svc.Watch.Video(); video != nil {
			return m.openPlaylistPicker(video.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if m.Pane != paneComments {
			return m, nil
		}
		selected := m.commentsList().Selected()
		if selected == nil {
			return m, nil
		}
		if c, ok := selected.(*domain.Comment); ok && !c.IsMine {
			return m.status("Not your comment", true, nil)
		}
		return m.confirm("Delete this comment?", DeleteCommentCmd(m.Svc.Comments, selected.GetID()))
	}
	return m, nil
}

func (m Model) toggleCommentLike() (tea.Model, tea.Cmd) {
	selected := m.commentsList().Selected()
	if selected == nil {
		return m, nil
	}
	id := selected.GetID()
	outcome, ok := m.Svc.Comments.BeginLikeToggle(id)
	if !ok {
		return m, nil
	}
	model, _ := m.handleFeedLoaded(View(-1))
	m2 := model.(Model)
	return m2, CompleteToggleCmd(ToggleCommentLike, id, func(ctx context.Context) (feed.ToggleState, error) {
		return m2.Svc.Comments.CompleteLikeToggle(ctx, id, outcome)
	})
}

// openPlaylistPicker arms the playlist chooser for one video. Playlists load
// lazily if the user has not visited that tab yet.
func (m Model) openPlaylistPicker(videoID string) (tea.Model, tea.Cmd) {
	m.PickingPlaylist = true
	m.PickIndex = 0
	m.PickVideoID = videoID
	if len(m.Svc.Playlists.Snapshot().Items) == 0 {
		return m, LoadFeedCmd(ViewPlaylists, m.Svc.Playlists.Refresh)
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	playlists := m.Svc.Playlists.Snapshot().Items

	switch {
	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Quit):
		m.PickingPlaylist = false
		m.PickVideoID = ""
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.PickIndex > 0 {
			m.PickIndex--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.PickIndex < len(playlists)-1 {
			m.PickIndex++
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.PickIndex >= len(playlists) {
			return m, nil
		}
		playlist := playlists[m.PickIndex]
		videoID := m.PickVideoID
		m.PickingPlaylist = false
		m.PickVideoID = ""
		return m, AddToPlaylistCmd(m.Svc.Playlists, playlist.ID, videoID)
	}
	return m, nil
}

// confirm arms the y/n prompt guarding a destructive action.
func (m Model) confirm(prompt string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.ConfirmPrompt = prompt
	m.ConfirmCmd = cmd
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		cmd := m.ConfirmCmd
		m.ConfirmPrompt = ""
		m.ConfirmCmd = nil
		return m, cmd
	case key.Matches(msg, Keys.Deny):
		m.ConfirmPrompt = ""
		m.ConfirmCmd = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.InputPurpose = inputNone
		m.EditCommentID = ""
		m.Input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		value := strings.TrimSpace(m.Input.Value())
		purpose := m.InputPurpose
		commentID := m.EditCommentID
		m.InputPurpose = inputNone
		m.EditCommentID = ""
		m.Input.Blur()
		if value == "" {
			return m, nil
		}
		switch purpose {
		case inputComment:
			return m, PostCommentCmd(m.Svc.Comments, value)
		case inputEditComment:
			return m, UpdateCommentCmd(m.Svc.Comments, commentID, value)
		case inputNewPost:
			return m, CreatePostCmd(m.Svc.Posts, value)
		case inputNewPlaylist:
			name, description, _ := strings.Cut(value, "|")
			return m, CreatePlaylistCmd(m.Svc.Playlists, strings.TrimSpace(name), strings.TrimSpace(description))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// handleFilterKey drives the local fuzzy filter. Typing narrows the loaded
// collection live; on the home view Enter commits the text as a server-side
// search scope instead.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.Filtering = false
		m.FilterInput.Blur()
		model, cmd := m.handleFeedLoaded(m.activeFeedView())
		return model, cmd

	case msg.Type == tea.KeyEnter:
		m.Filtering = false
		m.FilterInput.Blur()
		query := strings.TrimSpace(m.FilterInput.Value())
		if m.CurrentView == ViewHome && query != "" {
			m.Svc.Videos.SetScope(query, "")
			return m, LoadFeedCmd(ViewHome, m.Svc.Videos.Refresh)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	m.applyLocalFilter()
	return m, cmd
}

func (m *Model) applyLocalFilter() {
	query := m.FilterInput.Value()
	v := m.activeFeedView()

	// Filter over the service's full loaded collection, not the already
	// filtered list.
	model, _ := m.handleFeedLoaded(v)
	m2 := model.(Model)
	*m = m2

	if query == "" {
		return
	}

	// Channels filter by handle as well as title, subsequence-style
	if v == ViewSubscriptions {
		matches := search.PickChannels(query, m.Svc.Subs.Snapshot().Items)
		filtered := make([]domain.FeedItem, len(matches))
		for i, match := range matches {
			filtered[i] = match.Channel
		}
		m.Lists[ViewSubscriptions].SetItems(filtered)
		return
	}

	list := m.activeList()
	results := m.Svc.Search.FilterLocal(query, list.items)
	filtered := make([]domain.FeedItem, len(results))
	for i, r := range results {
		filtered[i] = r.Item
	}
	list.SetItems(filtered)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyShiftTab:
		m.LoginFocus = 1 - m.LoginFocus
		if m.LoginFocus == 0 {
			m.EmailInput.Focus()
			m.PasswordInput.Blur()
		} else {
			m.EmailInput.Blur()
			m.PasswordInput.Focus()
		}
		return m, textinput.Blink

	case tea.KeyEnter:
		if m.LoginFocus == 0 {
			m.LoginFocus = 1
			m.EmailInput.Blur()
			m.PasswordInput.Focus()
			return m, textinput.Blink
		}
		email := strings.TrimSpace(m.EmailInput.Value())
		password := m.PasswordInput.Value()
		if email == "" || password == "" {
			return m.status("Email and password required", true, nil)
		}
		return m, LoginCmd(m.Svc.Session, email, password)
	}

	var cmd tea.Cmd
	if m.LoginFocus == 0 {
		m.EmailInput, cmd = m.EmailInput.Update(msg)
	} else {
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	}
	return m, cmd
}
