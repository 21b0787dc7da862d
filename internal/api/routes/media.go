package routes

import (
	mediahandlers "Ciale/internal/api/handlers/media"
	"Ciale/internal/api/middleware"
	"Ciale/internal/core/media"

	"github.com/go-chi/chi/v5"
)

// RegisterMediaRoutes registers the image and video galleries
func RegisterMediaRoutes(r chi.Router, service media.Service, authMiddleware *middleware.AuthMiddleware) {
	imageHandler := mediahandlers.NewImageHandler(service)
	videoHandler := mediahandlers.NewVideoHandler(service)

	r.Route("/images", func(r chi.Router) {
		r.Get("/", imageHandler.HandleList)
		r.Get("/{id}", imageHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", imageHandler.HandleCreate)
			r.Put("/", imageHandler.HandleUpdate)
			r.Delete("/{id}", imageHandler.HandleDelete)
		})
	})

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", videoHandler.HandleList)
		r.Get("/{id}", videoHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", videoHandler.HandleCreate)
			r.Patch("/", videoHandler.HandleUpdate)
			r.Delete("/", videoHandler.HandleDelete)
		})
	})
}
