package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvickers/tubetui/internal/feed"
	"github.com/mvickers/tubetui/internal/service"
)

// Command factories for async operations

const fetchTimeout = 30 * time.Second

// LoadFeedCmd runs one feed operation (LoadNext or Refresh) for a view.
// Dropped calls inside the pager come back as a plain FeedLoadedMsg, so the
// model just re-snapshots either way.
func LoadFeedCmd(view View, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := op(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading feed"}
		}
		return FeedLoadedMsg{View: view}
	}
}

// OpenVideoCmd loads the full video for the watch view
func OpenVideoCmd(svc *service.WatchService, videoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		video, err := svc.Open(ctx, videoID)
		if err != nil {
			return ErrMsg{Err: err, Context: "opening video"}
		}
		return VideoOpenedMsg{Video: video}
	}
}

// LoadChannelCmd loads the uploader's channel profile
func LoadChannelCmd(svc *service.WatchService, handle string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		channel, err := svc.LoadChannel(ctx, handle)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading channel"}
		}
		return ChannelLoadedMsg{Channel: channel}
	}
}

// CompleteToggleCmd resolves an optimistic toggle against the server. The
// optimistic flip already happened synchronously in Update; this command only
// carries the reconciliation result back.
func CompleteToggleCmd(kind ToggleKind, id string, complete func(ctx context.Context) (feed.ToggleState, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		state, err := complete(ctx)
		return ToggleDoneMsg{Kind: kind, ID: id, State: state, Err: err}
	}
}

// PostCommentCmd publishes a new comment on the open video
func PostCommentCmd(svc *service.CommentService, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		comment, err := svc.Add(ctx, content)
		if err != nil {
			return ErrMsg{Err: err, Context: "posting comment"}
		}
		return CommentPostedMsg{Comment: comment}
	}
}

// DeleteCommentCmd removes a comment owned by the current user
func DeleteCommentCmd(svc *service.CommentService, commentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Delete(ctx, commentID); err != nil {
			return ErrMsg{Err: err, Context: "deleting comment"}
		}
		return CommentDeletedMsg{CommentID: commentID}
	}
}

// UpdateCommentCmd edits a comment owned by the current user
func UpdateCommentCmd(svc *service.CommentService, commentID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Update(ctx, commentID, content); err != nil {
			return ErrMsg{Err: err, Context: "editing comment"}
		}
		return CommentUpdatedMsg{CommentID: commentID}
	}
}

// AddToPlaylistCmd adds a video to one of the user's playlists
func AddToPlaylistCmd(svc *service.PlaylistService, playlistID, videoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.AddVideo(ctx, playlistID, videoID); err != nil {
			return ErrMsg{Err: err, Context: "adding to playlist"}
		}
		return VideoAddedToPlaylistMsg{PlaylistID: playlistID, VideoID: videoID}
	}
}

// RemoveFromPlaylistCmd removes a video from a playlist
func RemoveFromPlaylistCmd(svc *service.PlaylistService, playlistID, videoID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.RemoveVideo(ctx, playlistID, videoID); err != nil {
			return ErrMsg{Err: err, Context: "removing from playlist"}
		}
		return VideoRemovedFromPlaylistMsg{PlaylistID: playlistID, VideoID: videoID}
	}
}

// CreatePlaylistCmd creates a new playlist
func CreatePlaylistCmd(svc *service.PlaylistService, name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		playlist, err := svc.Create(ctx, name, description)
		if err != nil {
			return ErrMsg{Err: err, Context: "creating playlist"}
		}
		return PlaylistCreatedMsg{Playlist: playlist}
	}
}

// DeletePlaylistCmd deletes a playlist
func DeletePlaylistCmd(svc *service.PlaylistService, playlistID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Delete(ctx, playlistID); err != nil {
			return ErrMsg{Err: err, Context: "deleting playlist"}
		}
		return PlaylistDeletedMsg{PlaylistID: playlistID}
	}
}

// CreatePostCmd publishes a community post
func CreatePostCmd(svc *service.PostService, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		post, err := svc.Create(ctx, content)
		if err != nil {
			return ErrMsg{Err: err, Context: "publishing post"}
		}
		return PostCreatedMsg{Post: post}
	}
}

// DeletePostCmd removes a community post
func DeletePostCmd(svc *service.PostService, postID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Delete(ctx, postID); err != nil {
			return ErrMsg{Err: err, Context: "deleting post"}
		}
		return PostDeletedMsg{PostID: postID}
	}
}

// ClearHistoryCmd wipes the watch history
func ClearHistoryCmd(svc *service.HistoryService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Clear(ctx); err != nil {
			return ErrMsg{Err: err, Context: "clearing history"}
		}
		return HistoryClearedMsg{}
	}
}

// LoginCmd attempts to authenticate
func LoginCmd(svc *service.SessionService, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		user, err := svc.Login(ctx, email, password)
		return LoginDoneMsg{User: user, Err: err}
	}
}

// RevalidateCmd checks whether the stored token is still accepted
func RevalidateCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := svc.Revalidate(ctx); err != nil {
			return ErrMsg{Err: err, Context: "validating session"}
		}
		return nil
	}
}

// LogoutCmd ends the session
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc.Logout(ctx)
		return nil
	}
}

// WaitAuthCmd blocks on the session service's event channel and re-arms
// itself from the model after each event.
func WaitAuthCmd(ch <-chan service.AuthEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AuthChangedMsg{Event: ev}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
