// internal/app/features/tasks/create.go
package tasks

import (
	"errors"
	"net/http"
	"strings"

	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"go.uber.org/zap"
)

// HandleCreate adds a task to the board.
// POST /tasks/add
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse add-task form failed", err, "Invalid form data.", "/tasks")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	assignee := r.PostFormValue("assigned_to")
	display := assignee
	if u, err := h.Users.GetByUsername(ctx, assignee); err == nil {
		display = u.DisplayName
	} else if !errors.Is(err, errs.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "lookup assignee failed", err, "A database error occurred.", "/tasks")
		return
	}

	params := taskstore.CreateParams{
		Text:             strings.TrimSpace(r.PostFormValue("text")),
		Priority:         r.PostFormValue("priority"),
		AssignedUsername: assignee,
		AssignedDisplay:  display,
		Owner:            authz.Username(r),
		Notes:            strings.TrimSpace(r.PostFormValue("notes")),
		Recurring:        r.PostFormValue("recurring"),
	}
	if due := parseDate(r.PostFormValue("due")); due != nil {
		params.Due = due
	}
	if tags := r.PostFormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}

	task, err := h.Tasks.Create(ctx, params)
	if err != nil {
		if errs.IsValidation(err) {
			h.ErrLog.LogBadRequest(w, r, "add task rejected", err, err.Error(), "/tasks")
			return
		}
		h.ErrLog.LogServerError(w, r, "create task failed", err, "Unable to add the task.", "/tasks")
		return
	}

	h.Log.Debug("task created",
		zap.String("id", task.ID.Hex()),
		zap.String("assigned_to", task.AssignedUsername))
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
