package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create stores a new user.
	// Returns ErrEmailTaken or ErrUsernameTaken on a uniqueness violation.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update persists username, email, avatar and updatedAt
	Update(ctx context.Context, user *User) (*User, error)

	// AppendPostID adds postID to the user's post list unless it is already there
	AppendPostID(ctx context.Context, userID, postID string) error

	// RemovePostID drops postID from the user's post list; absent ids are not an error
	RemovePostID(ctx context.Context, userID, postID string) error

	// ListPostIDs returns the recorded post ids of every user
	ListPostIDs(ctx context.Context) (Ownership, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, req LoginRequest) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, actingUserID string, req UpdateProfileRequest) (*User, error)

	// RecordOwnership links a newly created post to its owner. Safe to repeat.
	RecordOwnership(ctx context.Context, userID, postID string) error

	// RemoveOwnership unlinks a deleted post from its owner
	RemoveOwnership(ctx context.Context, userID, postID string) error

	// ListOwnership returns every user's recorded post ids for repair sweeps
	ListOwnership(ctx context.Context) (Ownership, error)
}
