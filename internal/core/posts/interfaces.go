package posts

import (
	"context"
	"time"

	"Ciale/internal/auth"
	"Ciale/internal/core/users"
)

// Service defines the business logic interface for posts
// Coordinates between Repository, the user directory and the media CDN
type Service interface {
	// CreatePost validates, stores and links a new post to its owner
	// Flow: Validate -> Load author -> Store post -> Record ownership (undo store on failure)
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	GetPost(ctx context.Context, id string) (*Post, error)

	// ListPosts returns every post, newest first
	ListPosts(ctx context.Context) ([]*Post, error)

	// SearchPosts returns posts whose username or content contains query, ignoring case.
	// A blank query behaves like ListPosts.
	SearchPosts(ctx context.Context, query string) ([]*Post, error)

	// UpdatePost replaces the content of a post the actor owns
	UpdatePost(ctx context.Context, id string, actor auth.Identity, content string) (*Post, error)

	// DeletePost removes a post the actor owns, its CDN file and its ownership link
	DeletePost(ctx context.Context, id string, actor auth.Identity) error

	// ReconcileOwnership rebuilds every user's post list from the stored posts
	ReconcileOwnership(ctx context.Context) (*ReconcileReport, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	Create(ctx context.Context, post *Post) error

	// GetByID returns ErrNotFound when the id does not resolve
	GetByID(ctx context.Context, id string) (*Post, error)

	// List returns all posts ordered by createdAt desc, then id desc
	List(ctx context.Context) ([]*Post, error)

	// Search returns posts matching query (see Matches) in List order
	Search(ctx context.Context, query string) ([]*Post, error)

	// UpdateContent overwrites content and updatedAt only
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*Post, error)

	// Delete returns ErrNotFound when the id does not resolve
	Delete(ctx context.Context, id string) error
}

// UserDirectory is the slice of the user service posts depend on
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*users.User, error)
	RecordOwnership(ctx context.Context, userID, postID string) error
	RemoveOwnership(ctx context.Context, userID, postID string) error
	ListOwnership(ctx context.Context) (users.Ownership, error)
}

// FileDeleter removes an uploaded file from the media CDN
type FileDeleter interface {
	DeleteFile(ctx context.Context, fileID string) error
}
