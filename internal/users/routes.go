package users

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/administrators", h.ListAdministrators)
		r.Post("/administrators", h.CreateAdministrator)
		r.Delete("/administrators/{id}", h.DeleteAdministrator)
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
	})
}
