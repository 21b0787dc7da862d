package post

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/core/posts"
)

// ListHandler serves the public feed
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /posts
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleSearch handles GET /posts/search?q=
// The query is matched literally; a missing or blank q returns the full feed.
func (h *ListHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.SearchPosts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}
