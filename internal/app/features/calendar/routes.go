// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the JSON feeds under /api.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/calendar", h.ServeCalendar)
		pr.Get("/tasks/events", h.ServeTaskEvents)
		pr.Patch("/tasks/{id}/due", h.HandleUpdateDue)
	})

	return r
}
