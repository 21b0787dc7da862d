package post

import (
	"errors"
	"log"
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/core/posts"
)

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	handlers.WriteError(w, statusCode, errorType, message)
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posts.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired",
			"Authentication required")

	case errors.Is(err, posts.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NotAuthorized",
			"You can only modify your own posts")

	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "Post not found")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
