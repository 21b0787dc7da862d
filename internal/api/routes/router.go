package routes

import (
	"net/http"

	"Ciale/internal/api/middleware"
	"Ciale/internal/auth"
	"Ciale/internal/core/media"
	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
	"Ciale/internal/imagekit"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the services and auth components the HTTP API is built from
type Dependencies struct {
	Users          users.UserService
	Posts          posts.Service
	Media          media.Service
	Tokens         *auth.TokenIssuer
	Sessions       *auth.SessionStore
	ImageKit       *imagekit.Client
	AllowedOrigins []string
	// RequestLogging enables chi's per-request access log
	RequestLogging bool
}

// NewRouter assembles the full API
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	if deps.RequestLogging {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(deps.AllowedOrigins))
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens, deps.Sessions)

	RegisterUserRoutes(r, deps.Users, deps.Tokens, deps.Sessions, deps.ImageKit, authMiddleware)
	RegisterPostRoutes(r, deps.Posts, authMiddleware)
	RegisterMediaRoutes(r, deps.Media, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// corsMiddleware allows browser clients from the configured origins to send credentials
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
