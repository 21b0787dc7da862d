package auth

// Identity is the authenticated caller attached to a request.
// UserID is the stable id; Username and Email are the values at sign-in time.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}
