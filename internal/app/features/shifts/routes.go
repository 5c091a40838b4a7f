// internal/app/features/shifts/routes.go
package shifts

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the schedule under /shifts. Attendance is open to any
// signed-in user and ownership-checked in the store; the rest is
// manager-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/attendance", h.HandleAttendance)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("manager"))
		pr.Get("/", h.ServeSchedule)
		pr.Post("/add", h.HandleCreate)
		pr.Post("/{id}/delete", h.HandleRemove)
	})

	return r
}

// MyRoutes mounts the member's own schedule under /my-shifts.
func MyRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeMySchedule)
	})

	return r
}
