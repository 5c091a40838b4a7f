// internal/app/features/titles/routes.go
package titles

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the title registry under /titles. Manager-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("manager"))
		pr.Get("/", h.ServeRegistry)
		pr.Post("/add", h.HandleCreate)
		pr.Post("/update", h.HandleUpdate)
		pr.Post("/delete", h.HandleRemove)
	})

	return r
}
