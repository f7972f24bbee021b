package api

// Wire shapes as the backend serializes them. Aggregation endpoints embed
// the owner under "owner" or "ownerDetails" depending on the pipeline, so
// both are declared and the mapper picks whichever is populated.

type ownerDTO struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type videoDTO struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	Duration     float64   `json:"duration"` // seconds
	Views        int       `json:"views"`
	Owner        *ownerDTO `json:"owner"`
	OwnerDetails *ownerDTO `json:"ownerDetails"`
	LikesCount   int       `json:"likesCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type commentDTO struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	Video      string    `json:"video"`
	Owner      *ownerDTO `json:"owner"`
	LikesCount int       `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	IsOwner    bool      `json:"isOwner"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type playlistDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	TotalVideos int    `json:"totalVideos"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type postDTO struct {
	ID           string    `json:"_id"`
	Content      string    `json:"content"`
	Owner        *ownerDTO `json:"owner"`
	OwnerDetails *ownerDTO `json:"ownerDetails"`
	LikesCount   int       `json:"likesCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type channelDTO struct {
	ID              string `json:"_id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Avatar          string `json:"avatar"`
	SubscriberCount int    `json:"subscribersCount"`
	VideoCount      int    `json:"videosCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

type historyDTO struct {
	videoDTO
	WatchedAt string `json:"watchedAt"`
}

type userDTO struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type loginResponseDTO struct {
	User        userDTO `json:"user"`
	AccessToken string  `json:"accessToken"`
}
