package routes

import (
	"Ciale/internal/api/handlers/post"
	"Ciale/internal/api/middleware"
	"Ciale/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the feed endpoints on the router.
// Reads are public; create, update and delete require a signed-in caller.
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	listHandler := post.NewListHandler(service)
	getHandler := post.NewGetHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", listHandler.HandleList)
		// Registered before /{id} so "search" is never taken as a post id
		r.Get("/search", listHandler.HandleSearch)
		r.Get("/{id}", getHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", createHandler.HandleCreate)
			r.Put("/{id}", updateHandler.HandleUpdate)
			r.Delete("/{id}", deleteHandler.HandleDelete)
		})
	})
}
