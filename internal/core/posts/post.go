package posts

import (
	"time"
)

// MaxContentLength is the post body limit in user-perceived characters
const MaxContentLength = 2000

// MediaType tags the kind of CDN asset attached to a post
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is a CDN-hosted asset attached to a post.
// FileID is the CDN's handle for remote cleanup and may be empty.
type Media struct {
	Type   MediaType `json:"type"`
	URL    string    `json:"url"`
	FileID string    `json:"fileId,omitempty"`
}

// Post is a feed entry.
// ID and Owner are fixed at creation; Username is the author's handle at that moment.
type Post struct {
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
	Media        *Media      `json:"media,omitempty"`
	Author       *AuthorView `json:"author,omitempty" db:"-"`
	ID           string      `json:"id" db:"id"`
	Owner        string      `json:"owner" db:"owner_id"`
	Username     string      `json:"username" db:"username"`
	Content      string      `json:"content" db:"content"`
	LikesCount   int         `json:"likesCount" db:"likes_count"`
	ShareCount   int         `json:"shareCount" db:"share_count"`
	CommentCount int         `json:"commentCount" db:"comment_count"`
}

// AuthorView is the owner's current profile joined onto a created post
type AuthorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// CreatePostRequest is the input for creating a post.
// OwnerID comes from the authenticated caller, never from the request body.
type CreatePostRequest struct {
	Media    *Media `json:"media,omitempty"`
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
	OwnerID  string `json:"-"`
}

// UpdatePostRequest carries the replacement body for an existing post
type UpdatePostRequest struct {
	Content string `json:"content"`
}

// ReconcileReport summarizes a User–Post linkage repair sweep
type ReconcileReport struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}
