package post

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/api/middleware"
	"Ciale/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// DeleteHandler handles post removal
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete handles DELETE /posts/{id}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "id"), *identity); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, handlers.Success{Success: true})
}
