// internal/app/features/tasks/toggle.go
package tasks

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/app/policy/taskpolicy"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleToggle flips a task's done state. Managers can toggle any task,
// members only their own. A completion bumps the assignee's lifetime
// counter; undoing it takes the bump back.
// POST /tasks/toggle/{id}
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That task doesn't exist.", "/")
		return
	}

	role, username, _, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That task doesn't exist.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "load task failed", err, "A database error occurred.", "/")
		return
	}

	if !taskpolicy.CanToggle(role, username, task) {
		h.ErrLog.LogForbidden(w, r, "toggle denied", "You can only update tasks assigned to you.", "/")
		return
	}

	toggled, err := h.Tasks.Toggle(ctx, id, username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle task failed", err, "Unable to update the task.", "/")
		return
	}

	if toggled.AssignedUsername != "" {
		delta := -1
		if toggled.Done {
			delta = 1
		}
		if err := h.Users.IncrementCompleted(ctx, toggled.AssignedUsername, delta); err != nil {
			h.Log.Warn("completed counter update failed",
				zap.String("username", toggled.AssignedUsername),
				zap.Error(err))
		}
	}

	h.Log.Debug("task toggled",
		zap.String("id", toggled.ID.Hex()),
		zap.Bool("done", toggled.Done),
		zap.String("by", username))

	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/"), http.StatusSeeOther)
}
