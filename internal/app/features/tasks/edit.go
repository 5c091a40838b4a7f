// internal/app/features/tasks/edit.go
package tasks

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type editFormData struct {
	viewdata.BaseVM
	Error   string
	Task    *models.Task
	Members []models.User
}

// ServeEdit renders the edit form for one task.
// GET /tasks/edit/{id}
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That task doesn't exist.", "/tasks")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That task doesn't exist.", "/tasks")
			return
		}
		h.ErrLog.LogServerError(w, r, "load task failed", err, "A database error occurred.", "/tasks")
		return
	}
	members, err := h.Users.ListMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/tasks")
		return
	}

	templates.Render(w, r, "task_edit", editFormData{
		BaseVM:  viewdata.NewBaseVM(r, "Edit task", "/tasks"),
		Task:    task,
		Members: members,
	})
}

// HandleEdit applies the edit form.
// POST /tasks/edit/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That task doesn't exist.", "/tasks")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse edit form failed", err, "Invalid form data.", "/tasks")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	text := strings.TrimSpace(r.PostFormValue("text"))
	priority := r.PostFormValue("priority")
	notes := strings.TrimSpace(r.PostFormValue("notes"))
	assignee := r.PostFormValue("assigned_to")

	params := taskstore.UpdateParams{
		Text:     &text,
		Priority: &priority,
		Notes:    &notes,
	}
	if assignee != "" {
		display := assignee
		if u, uerr := h.Users.GetByUsername(ctx, assignee); uerr == nil {
			display = u.DisplayName
		}
		params.AssignedUsername = &assignee
		params.AssignedDisplay = &display
	}
	if due := parseDate(r.PostFormValue("due")); due != nil {
		params.Due = due
	} else if r.PostFormValue("clear_due") == "1" {
		params.ClearDue = true
	}

	if _, err := h.Tasks.Update(ctx, id, params); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			uierrors.RenderNotFound(w, r, "That task doesn't exist.", "/tasks")
		case errs.IsValidation(err):
			h.ErrLog.LogBadRequest(w, r, "edit task rejected", err, err.Error(), "/tasks")
		default:
			h.ErrLog.LogServerError(w, r, "update task failed", err, "Unable to save the task.", "/tasks")
		}
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// HandleNotes updates just the notes field. Members may annotate their
// own assignments; everything else on a task stays manager-only.
// POST /tasks/notes/{id}
func (h *Handler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That task doesn't exist.", "/")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse notes form failed", err, "Invalid form data.", "/")
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
	if !taskpolicy.CanEditNotes(role, username, task) {
		h.ErrLog.LogForbidden(w, r, "notes edit denied", "You can only annotate tasks assigned to you.", "/")
		return
	}

	if _, err := h.Tasks.UpdateNotes(ctx, id, strings.TrimSpace(r.PostFormValue("notes"))); err != nil {
		h.ErrLog.LogServerError(w, r, "update notes failed", err, "Unable to save the notes.", "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRemove deletes a task.
// POST /tasks/remove/{id}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That task doesn't exist.", "/tasks")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Tasks.Remove(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That task doesn't exist.", "/tasks")
			return
		}
		h.ErrLog.LogServerError(w, r, "remove task failed", err, "Unable to remove the task.", "/tasks")
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
