package api

import (
	"encoding/json"
	"time"

	"github.com/mvickers/tubetui/internal/domain"
)

// Mapping from wire DTOs to domain entities. Timestamps the backend omits or
// garbles map to the zero time rather than failing the whole page.

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (o *ownerDTO) name() string {
	if o == nil {
		return ""
	}
	if o.FullName != "" {
		return o.FullName
	}
	return o.Username
}

func (o *ownerDTO) id() string {
	if o == nil {
		return ""
	}
	return o.ID
}

func (o *ownerDTO) handle() string {
	if o == nil {
		return ""
	}
	return o.Username
}

func mapVideo(dto videoDTO) *domain.Video {
	owner := dto.Owner
	if owner == nil {
		owner = dto.OwnerDetails
	}
	return &domain.Video{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Thumbnail:   dto.Thumbnail,
		Duration:    time.Duration(dto.Duration * float64(time.Second)),
		Views:       dto.Views,
		OwnerID:     owner.id(),
		OwnerHandle: owner.handle(),
		OwnerName:   owner.name(),
		LikesCount:  dto.LikesCount,
		Liked:       dto.IsLiked,
		CreatedAt:   parseTime(dto.CreatedAt),
		UpdatedAt:   parseTime(dto.UpdatedAt),
	}
}

func mapComment(dto commentDTO) *domain.Comment {
	return &domain.Comment{
		ID:         dto.ID,
		VideoID:    dto.Video,
		Content:    dto.Content,
		OwnerID:    dto.Owner.id(),
		OwnerName:  dto.Owner.name(),
		LikesCount: dto.LikesCount,
		Liked:      dto.IsLiked,
		IsMine:     dto.IsOwner,
		CreatedAt:  parseTime(dto.CreatedAt),
		UpdatedAt:  parseTime(dto.UpdatedAt),
	}
}

func mapPlaylist(dto playlistDTO) *domain.Playlist {
	return &domain.Playlist{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		OwnerID:     dto.Owner,
		ItemCount:   dto.TotalVideos,
		CreatedAt:   parseTime(dto.CreatedAt),
		UpdatedAt:   parseTime(dto.UpdatedAt),
	}
}

func mapPost(dto postDTO) *domain.Post {
	owner := dto.Owner
	if owner == nil {
		owner = dto.OwnerDetails
	}
	return &domain.Post{
		ID:         dto.ID,
		Content:    dto.Content,
		OwnerID:    owner.id(),
		OwnerName:  owner.name(),
		LikesCount: dto.LikesCount,
		Liked:      dto.IsLiked,
		CreatedAt:  parseTime(dto.CreatedAt),
		UpdatedAt:  parseTime(dto.UpdatedAt),
	}
}

func mapChannel(dto channelDTO) *domain.Channel {
	return &domain.Channel{
		ID:              dto.ID,
		Handle:          dto.Username,
		Name:            dto.FullName,
		AvatarURL:       dto.Avatar,
		SubscriberCount: dto.SubscriberCount,
		VideoCount:      dto.VideoCount,
		Subscribed:      dto.IsSubscribed,
	}
}

func mapHistoryEntry(dto historyDTO) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		Video:     *mapVideo(dto.videoDTO),
		WatchedAt: parseTime(dto.WatchedAt),
	}
}

func mapUser(dto userDTO) *domain.User {
	return &domain.User{
		ID:        dto.ID,
		Handle:    dto.Username,
		Email:     dto.Email,
		Name:      dto.FullName,
		AvatarURL: dto.Avatar,
	}
}

// decodeDocs unmarshals every doc in a normalized list through the given
// mapper, skipping docs that fail to decode rather than dropping the page.
func decodeDocs[D any, T any](c *Client, docs []json.RawMessage, mapFn func(D) T) []T {
	items := make([]T, 0, len(docs))
	for _, raw := range docs {
		var dto D
		if err := json.Unmarshal(raw, &dto); err != nil {
			c.logger.Debug("skipping malformed doc", "error", err)
			continue
		}
		items = append(items, mapFn(dto))
	}
	return items
}
