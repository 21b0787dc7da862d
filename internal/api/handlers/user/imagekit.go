package user

import (
	"net/http"

	"Ciale/internal/api/handlers"
	"Ciale/internal/api/middleware"
	"Ciale/internal/imagekit"
)

// ImageKitAuthResponse is what a browser needs to upload directly to the CDN
type ImageKitAuthResponse struct {
	imagekit.AuthParams
	PublicKey   string `json:"publicKey"`
	URLEndpoint string `json:"urlEndpoint"`
	UserEmail   string `json:"userEmail"`
}

// ImageKitAuthHandler signs client-side uploads
type ImageKitAuthHandler struct {
	client *imagekit.Client
}

// NewImageKitAuthHandler creates the handler; client may be nil when the CDN is not configured
func NewImageKitAuthHandler(client *imagekit.Client) *ImageKitAuthHandler {
	return &ImageKitAuthHandler{client: client}
}

// HandleAuth handles GET /auth/imagekit-auth
func (h *ImageKitAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "ImageKitNotConfigured",
			"Media uploads are not configured")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, ImageKitAuthResponse{
		AuthParams:  h.client.AuthenticationParameters(),
		PublicKey:   h.client.PublicKey(),
		URLEndpoint: h.client.URLEndpoint(),
		UserEmail:   identity.Email,
	})
}
