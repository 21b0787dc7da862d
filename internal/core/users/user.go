package users

import (
	"time"
)

// User is a registered account.
// PostIDs is the denormalized list of posts the user owns, in creation order.
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	Avatar       string    `json:"avatar,omitempty" db:"avatar"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PostIDs      []string  `json:"postIds" db:"post_ids"`
}

// Clone returns a deep copy so cached values cannot be mutated by callers
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.PostIDs != nil {
		c.PostIDs = append([]string(nil), u.PostIDs...)
	}
	return &c
}

// RegisterRequest is the input for creating an account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
}

// LoginRequest is the input for credential sign-in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes only the fields that are present.
// An empty Avatar clears it. UserID, when sent, must name the caller.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	UserID   string  `json:"userId,omitempty"`
}

// Ownership maps user id to the post ids recorded on that user
type Ownership map[string][]string
