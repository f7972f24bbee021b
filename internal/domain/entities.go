package domain

import (
	"fmt"
	"time"
)

// Video represents a single uploaded video as returned by the backend.
type Video struct {
	ID          string // Server identity key (_id)
	Title       string
	Description string
	Thumbnail   string        // Thumbnail image URL
	Duration    time.Duration // Total runtime
	Views       int           // View count
	OwnerID     string        // Uploading channel ID
	OwnerHandle string        // Uploading channel username
	OwnerName   string        // Uploading channel display name
	LikesCount  int
	Liked       bool // Whether the current user has liked this video
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormattedDuration returns the duration in a human-readable format
func (v Video) FormattedDuration() string {
	h := int(v.Duration.Hours())
	m := int(v.Duration.Minutes()) % 60
	s := int(v.Duration.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormattedViews returns the view count in a compact form (e.g. "1.2K")
func (v Video) FormattedViews() string {
	return compactCount(v.Views)
}

// FeedItem interface implementation for Video

func (v *Video) GetID() string           { return v.ID }
func (v *Video) GetTitle() string        { return v.Title }
func (v *Video) GetUpdatedAt() time.Time { return v.UpdatedAt }
func (v *Video) GetItemType() string     { return "video" }

func (v *Video) GetDescription() string {
	return fmt.Sprintf("%s · %s views · %s", v.OwnerName, v.FormattedViews(), v.FormattedDuration())
}

// Comment represents a comment on a video.
type Comment struct {
	ID         string
	VideoID    string
	Content    string
	OwnerID    string
	OwnerName  string
	LikesCount int
	Liked      bool
	IsMine     bool // Authored by the current user (editable/deletable)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FeedItem interface implementation for Comment

func (c *Comment) GetID() string           { return c.ID }
func (c *Comment) GetTitle() string        { return c.Content }
func (c *Comment) GetUpdatedAt() time.Time { return c.UpdatedAt }
func (c *Comment) GetItemType() string     { return "comment" }

func (c *Comment) GetDescription() string {
	return fmt.Sprintf("@%s · %s", c.OwnerName, compactCount(c.LikesCount)+" likes")
}

// Playlist represents a user-created playlist.
type Playlist struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	ItemCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FeedItem interface implementation for Playlist

func (p *Playlist) GetID() string           { return p.ID }
func (p *Playlist) GetTitle() string        { return p.Name }
func (p *Playlist) GetUpdatedAt() time.Time { return p.UpdatedAt }
func (p *Playlist) GetItemType() string     { return "playlist" }

func (p *Playlist) GetDescription() string {
	if p.ItemCount == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", p.ItemCount)
}

// Post represents a community post (the text-only feed next to videos).
type Post struct {
	ID         string
	Content    string
	OwnerID    string
	OwnerName  string
	LikesCount int
	Liked      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FeedItem interface implementation for Post

func (p *Post) GetID() string           { return p.ID }
func (p *Post) GetTitle() string        { return p.Content }
func (p *Post) GetUpdatedAt() time.Time { return p.UpdatedAt }
func (p *Post) GetItemType() string     { return "post" }

func (p *Post) GetDescription() string {
	return fmt.Sprintf("@%s · %s likes", p.OwnerName, compactCount(p.LikesCount))
}

// Channel represents another user's channel as seen by the current user.
type Channel struct {
	ID              string
	Handle          string // Unique username, e.g. "mkbhd"
	Name            string // Display name
	AvatarURL       string
	SubscriberCount int
	VideoCount      int
	Subscribed      bool // Whether the current user subscribes to it
}

// FeedItem interface implementation for Channel

func (c *Channel) GetID() string           { return c.ID }
func (c *Channel) GetTitle() string        { return c.Name }
func (c *Channel) GetUpdatedAt() time.Time { return time.Time{} }
func (c *Channel) GetItemType() string     { return "channel" }

func (c *Channel) GetDescription() string {
	return fmt.Sprintf("@%s · %s subscribers", c.Handle, compactCount(c.SubscriberCount))
}

// HistoryEntry is a watched video plus the time it was watched.
type HistoryEntry struct {
	Video
	WatchedAt time.Time
}

func (h *HistoryEntry) GetItemType() string { return "history" }

// User is the authenticated account.
type User struct {
	ID        string
	Handle    string
	Email     string
	Name      string
	AvatarURL string
}

// FeedItem is the minimal surface the TUI list rendering needs.
// Every paged entity implements it.
type FeedItem interface {
	GetID() string
	GetTitle() string
	GetDescription() string
	GetUpdatedAt() time.Time
	GetItemType() string
}

// compactCount renders counts the way video platforms do: 999, 1.2K, 3.4M.
func compactCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
