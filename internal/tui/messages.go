package tui

import (
	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedLoadedMsg signals that a feed operation (next page or refresh) finished
// for one view. The model re-snapshots the owning service.
type FeedLoadedMsg struct {
	View View
}

// VideoOpenedMsg signals that the watch view's video has been loaded
type VideoOpenedMsg struct {
	Video *domain.Video
}

// ChannelLoadedMsg signals that the uploader's channel profile is loaded
type ChannelLoadedMsg struct {
	Channel *domain.Channel
}

// ToggleKind identifies which optimistic toggle a ToggleDoneMsg resolves
type ToggleKind int

const (
	ToggleVideoLike ToggleKind = iota
	ToggleWatchLike
	ToggleCommentLike
	TogglePostLike
	ToggleSubscribe
	ToggleWatchSubscribe
)

// ToggleDoneMsg signals that an optimistic toggle has been reconciled (or
// rolled back) against the server
type ToggleDoneMsg struct {
	Kind  ToggleKind
	ID    string
	State feed.ToggleState
	Err   error
}

// CommentPostedMsg signals that a new comment has been accepted
type CommentPostedMsg struct {
	Comment *domain.Comment
}

// CommentDeletedMsg signals that a comment was removed
type CommentDeletedMsg struct {
	CommentID string
}

// CommentUpdatedMsg signals that an edited comment was accepted
type CommentUpdatedMsg struct {
	CommentID string
}

// VideoAddedToPlaylistMsg signals that a video joined a playlist
type VideoAddedToPlaylistMsg struct {
	PlaylistID string
	VideoID    string
}

// VideoRemovedFromPlaylistMsg signals that a video left a playlist
type VideoRemovedFromPlaylistMsg struct {
	PlaylistID string
	VideoID    string
}

// PlaylistCreatedMsg signals that a new playlist exists
type PlaylistCreatedMsg struct {
	Playlist *domain.Playlist
}

// PlaylistDeletedMsg signals that a playlist was removed
type PlaylistDeletedMsg struct {
	PlaylistID string
}

// PostCreatedMsg signals that a community post was published
type PostCreatedMsg struct {
	Post *domain.Post
}

// PostDeletedMsg signals that a community post was removed
type PostDeletedMsg struct {
	PostID string
}

// HistoryClearedMsg signals that the watch history was wiped
type HistoryClearedMsg struct{}

// LoginDoneMsg signals the outcome of a login attempt
type LoginDoneMsg struct {
	User *domain.User
	Err  error
}

// AuthChangedMsg carries a session transition from the session service
type AuthChangedMsg struct {
	Event service.AuthEvent
}

// TickMsg is a general tick message for the spinner
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
