package media

import (
	"errors"
	"log"
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/core/media"
)

func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	handlers.WriteError(w, statusCode, errorType, message)
}

// handleServiceError maps gallery service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")

	case errors.Is(err, media.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NotAuthorized", "You can only modify your own uploads")

	case errors.Is(err, media.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "Image not found")

	case errors.Is(err, media.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "Video not found")

	case media.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	default:
		log.Printf("Unexpected error in media handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
