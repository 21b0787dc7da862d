package user

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/api/middleware"
	"Ciale/internal/auth"
	"Ciale/internal/core/users"
)

// UpdateProfileResponse carries the stored profile and a token reflecting it
type UpdateProfileResponse struct {
	User    *users.User `json:"user"`
	Token   string      `json:"token"`
	Success bool        `json:"success"`
}

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	users    users.UserService
	tokens   *auth.TokenIssuer
	sessions *auth.SessionStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService users.UserService, tokens *auth.TokenIssuer, sessions *auth.SessionStore) *ProfileHandler {
	return &ProfileHandler{
		users:    userService,
		tokens:   tokens,
		sessions: sessions,
	}
}

// HandleGet handles GET /user
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PUT /user.
// A fresh token is issued so the username and email it carries stay current.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req users.UpdateProfileRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	token, _, err := h.tokens.Issue(identityOf(user))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	// Only refresh the cookie for cookie-based sessions
	if middleware.GetAccessToken(r) == h.sessions.Token(r) {
		if err := h.sessions.Save(w, r, token); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	handlers.WriteJSON(w, http.StatusOK, UpdateProfileResponse{
		Success: true,
		User:    user,
		Token:   token,
	})
}
