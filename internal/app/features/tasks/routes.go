// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the task board under /tasks. The board, add, edit and
// remove are manager-only; toggle and notes are open to any signed-in
// user and policy-checked per task inside the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/toggle/{id}", h.HandleToggle)
		pr.Post("/notes/{id}", h.HandleNotes)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("manager"))
		pr.Get("/", h.ServeBoard)
		pr.Get("/overdue", h.ServeOverdue)
		pr.Post("/add", h.HandleCreate)
		pr.Get("/edit/{id}", h.ServeEdit)
		pr.Post("/edit/{id}", h.HandleEdit)
		pr.Post("/remove/{id}", h.HandleRemove)
	})

	return r
}
