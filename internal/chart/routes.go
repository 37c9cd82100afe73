package chart

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ListTree)
		r.Post("/", h.CreateGroup)
		r.Patch("/{id}", h.UpdateGroup)
		r.Delete("/{id}", h.DeleteGroup)
	})
}
