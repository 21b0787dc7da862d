package media

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/api/middleware"
	"Ciale/internal/core/media"

	"github.com/go-chi/chi/v5"
)

// VideoHandler serves the video gallery
type VideoHandler struct {
	service media.Service
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(service media.Service) *VideoHandler {
	return &VideoHandler{service: service}
}

// HandleList handles GET /videos
func (h *VideoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListVideos(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, videos)
}

// HandleGet handles GET /videos/{id}
func (h *VideoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	video, err := h.service.GetVideo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, video)
}

// HandleCreate handles POST /videos
func (h *VideoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req media.CreateVideoRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	video, err := h.service.CreateVideo(r.Context(), *identity, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, video)
}

// HandleUpdate handles PATCH /videos; the video id travels in the body
func (h *VideoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req media.UpdateVideoRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	video, err := h.service.UpdateVideo(r.Context(), *identity, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, video)
}

// HandleDelete handles DELETE /videos with {id} in the body
func (h *VideoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req media.DeleteVideoRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.DeleteVideo(r.Context(), *identity, req.ID); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Video deleted successfully",
	})
}
