package user

import (
	"log"
	"net/http"
	"time"

	"Ciale/internal/api/handlers"
	"Ciale/internal/auth"
	"Ciale/internal/core/users"
)

// LoginResponse is returned by a successful sign-in
type LoginResponse struct {
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *users.User `json:"user"`
	Token     string      `json:"token"`
}

// AuthHandler handles registration and credential sessions
type AuthHandler struct {
	users    users.UserService
	tokens   *auth.TokenIssuer
	sessions *auth.SessionStore
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService users.UserService, tokens *auth.TokenIssuer, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		users:    userService,
		tokens:   tokens,
		sessions: sessions,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if _, err := h.users.Register(r.Context(), req); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
	})
}

// HandleLogin handles POST /auth/login.
// The token is returned in the body and also stored in the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(identityOf(user))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.sessions.Save(w, r, token); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// HandleLogout handles POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	handlers.WriteJSON(w, http.StatusOK, handlers.Success{Success: true})
}
