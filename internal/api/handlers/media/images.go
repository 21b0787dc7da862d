package media

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/api/middleware"
	"Ciale/internal/core/media"

	"github.com/go-chi/chi/v5"
)

// ImageHandler serves the image gallery
type ImageHandler struct {
	service media.Service
}

// NewImageHandler creates a new image handler
func NewImageHandler(service media.Service) *ImageHandler {
	return &ImageHandler{service: service}
}

// HandleList handles GET /images
func (h *ImageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, images)
}

// HandleGet handles GET /images/{id}
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	image, err := h.service.GetImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, image)
}

// HandleCreate handles POST /images
func (h *ImageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req media.CreateImageRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	image, err := h.service.CreateImage(r.Context(), *identity, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, image)
}

// HandleUpdate handles PUT /images; the image id travels in the body
func (h *ImageHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req media.UpdateImageRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	image, err := h.service.UpdateImage(r.Context(), *identity, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, image)
}

// HandleDelete handles DELETE /images/{id}
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	if err := h.service.DeleteImage(r.Context(), *identity, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, handlers.Success{Success: true})
}
