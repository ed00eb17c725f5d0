package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns the project management router. Every route sits
// behind the auth and admin gates.
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/move", h.Move)
	r.Post("/{id}/media", h.AddMedia)
	r.Delete("/{id}/media/{index}", h.RemoveMedia)

	return r
}
