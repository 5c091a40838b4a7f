// internal/app/features/reminders/routes.go
package reminders

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/add", h.HandleAdd)
		pr.Post("/toggle/{id}", h.HandleToggle)
		pr.Post("/delete/{id}", h.HandleRemove)
	})

	return r
}
