package user

import (
	"errors"
	"log"
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/auth"
	"Ciale/internal/core/users"
)

func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	handlers.WriteError(w, statusCode, errorType, message)
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password")

	case errors.Is(err, users.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EmailTaken", "Email is already registered")

	case errors.Is(err, users.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "UsernameTaken", "Username is already taken")

	case errors.Is(err, users.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NotAuthorized", "You can only update your own profile")

	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "UserNotFound", "User not found")

	case users.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	default:
		log.Printf("Unexpected error in user handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}

// identityOf is the token payload for a user
func identityOf(u *users.User) auth.Identity {
	return auth.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
