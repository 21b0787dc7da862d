package posts

import "Ciale/internal/auth"

// CanMutate reports whether actor may edit or delete post.
// Ownership is decided by the immutable owner id, not the username.
func CanMutate(actor auth.Identity, post *Post) bool {
	if post == nil || actor.UserID == "" {
		return false
	}
	return actor.UserID == post.Owner
}
