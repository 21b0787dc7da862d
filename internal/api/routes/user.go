package routes

import (
	"Ciale/internal/api/handlers/user"
	"Ciale/internal/api/middleware"
	"Ciale/internal/auth"
	"Ciale/internal/core/users"
	"Ciale/internal/imagekit"

	"github.com/go-chi/chi/v5"
)

// RegisterUserRoutes registers sign-up, sign-in and profile endpoints.
// imageKit may be nil when uploads are not configured.
func RegisterUserRoutes(
	r chi.Router,
	service users.UserService,
	tokens *auth.TokenIssuer,
	sessions *auth.SessionStore,
	imageKit *imagekit.Client,
	authMiddleware *middleware.AuthMiddleware,
) {
	authHandler := user.NewAuthHandler(service, tokens, sessions)
	profileHandler := user.NewProfileHandler(service, tokens, sessions)
	imageKitHandler := user.NewImageKitAuthHandler(imageKit)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.With(authMiddleware.RequireAuth).Get("/imagekit-auth", imageKitHandler.HandleAuth)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", profileHandler.HandleGet)
		r.Put("/", profileHandler.HandleUpdate)
	})
}
