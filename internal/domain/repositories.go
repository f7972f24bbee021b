package domain

import (
	"context"

	"github.com/mvickers/tubetui/internal/feed"
)

// VideoRepository provides access to the video catalog
type VideoRepository interface {
	// ListVideos returns one page of the home feed, optionally filtered by
	// search query and/or owning channel
	ListVideos(ctx context.Context, query, channelID string, page, limit int) (feed.Page[*Video], error)

	// GetVideo returns full metadata for a single video
	GetVideo(ctx context.Context, videoID string) (*Video, error)

	// ListSuggested returns one page of videos suggested next to videoID
	ListSuggested(ctx context.Context, videoID string, page, limit int) (feed.Page[*Video], error)

	// ToggleVideoLike flips the like on a video.
	// Returns the server-confirmed resulting state (true = now liked).
	ToggleVideoLike(ctx context.Context, videoID string) (bool, error)
}

// CommentRepository provides access to a video's comment thread
type CommentRepository interface {
	// ListComments returns one page of comments for a video
	ListComments(ctx context.Context, videoID string, page, limit int) (feed.Page[*Comment], error)

	// AddComment posts a new comment and returns it
	AddComment(ctx context.Context, videoID, content string) (*Comment, error)

	// UpdateComment edits an existing comment owned by the current user
	UpdateComment(ctx context.Context, commentID, content string) (*Comment, error)

	// DeleteComment removes a comment owned by the current user
	DeleteComment(ctx context.Context, commentID string) error

	// ToggleCommentLike flips the like on a comment.
	// Returns the server-confirmed resulting state.
	ToggleCommentLike(ctx context.Context, commentID string) (bool, error)
}

// PlaylistRepository provides access to the current user's playlists
type PlaylistRepository interface {
	// ListPlaylists returns one page of the user's playlists
	ListPlaylists(ctx context.Context, page, limit int) (feed.Page[*Playlist], error)

	// ListPlaylistVideos returns one page of videos in a playlist
	ListPlaylistVideos(ctx context.Context, playlistID string, page, limit int) (feed.Page[*Video], error)

	// CreatePlaylist creates a new playlist
	CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error)

	// DeletePlaylist deletes a playlist
	DeletePlaylist(ctx context.Context, playlistID string) error

	// AddVideo adds a video to a playlist
	AddVideo(ctx context.Context, playlistID, videoID string) error

	// RemoveVideo removes a video from a playlist
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

// SubscriptionRepository provides access to channel subscriptions
type SubscriptionRepository interface {
	// ListSubscriptions returns one page of channels the user subscribes to
	ListSubscriptions(ctx context.Context, page, limit int) (feed.Page[*Channel], error)

	// GetChannel returns a channel profile as seen by the current user
	GetChannel(ctx context.Context, handle string) (*Channel, error)

	// ToggleSubscription flips the subscription to a channel.
	// Returns the server-confirmed resulting state (true = now subscribed).
	ToggleSubscription(ctx context.Context, channelID string) (bool, error)
}

// PostRepository provides access to the community post feed
type PostRepository interface {
	// ListPosts returns one page of community posts, optionally scoped to a
	// channel (empty channelID = the user's combined feed)
	ListPosts(ctx context.Context, channelID string, page, limit int) (feed.Page[*Post], error)

	// CreatePost publishes a new community post
	CreatePost(ctx context.Context, content string) (*Post, error)

	// DeletePost removes a post owned by the current user
	DeletePost(ctx context.Context, postID string) error

	// TogglePostLike flips the like on a post.
	// Returns the server-confirmed resulting state.
	TogglePostLike(ctx context.Context, postID string) (bool, error)
}

// HistoryRepository provides access to the user's watch history
type HistoryRepository interface {
	// ListHistory returns one page of watch history, most recent first
	ListHistory(ctx context.Context, page, limit int) (feed.Page[*HistoryEntry], error)

	// ClearHistory wipes the entire watch history
	ClearHistory(ctx context.Context) error
}

// SessionRepository provides authentication operations
type SessionRepository interface {
	// Login exchanges credentials for tokens and the user profile
	Login(ctx context.Context, email, password string) (*User, string, error)

	// CurrentUser validates the stored token and returns the profile.
	// Returns ErrSessionExpired when the token is no longer accepted.
	CurrentUser(ctx context.Context) (*User, error)

	// Logout invalidates the server-side session
	Logout(ctx context.Context) error
}
