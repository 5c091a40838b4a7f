// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts group boards under /groups. The hub and group creation
// are manager-only; everything on a board is open to signed-in users and
// policy-checked per group inside the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/{id}", h.ServeBoard)
		pr.Post("/{id}/message", h.HandleMessage)
		pr.Post("/{id}/toggle_task/{taskID}", h.HandleToggleTask)
		pr.Post("/{id}/add_task", h.HandleAddTask)
		pr.Post("/{id}/add_member", h.HandleAddMember)
		pr.Post("/{id}/remove_member", h.HandleRemoveMember)
		pr.Post("/{id}/pin/{msgID}", h.HandlePin)
		pr.Post("/{id}/delete/{msgID}", h.HandleDeleteMessage)
		pr.Post("/mark_all_read", h.HandleMarkAllRead)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("manager"))
		pr.Get("/", h.ServeHub)
		pr.Post("/add", h.HandleCreate)
	})

	return r
}
