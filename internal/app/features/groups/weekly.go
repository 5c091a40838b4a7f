// internal/app/features/groups/weekly.go
package groups

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/app/policy/grouppolicy"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleAddTask adds a weekly task to a group's board. Any group member
// or manager may add one.
// POST /groups/{id}/add_task
func (h *Handler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanViewBoard(user, group) {
		h.ErrLog.LogForbidden(w, r, "weekly task add denied", "You are not a member of that group.", "/")
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	priority := r.FormValue("priority")
	notes := strings.TrimSpace(r.FormValue("notes"))

	task, err := h.Groups.AddWeeklyTask(ctx, group.ID, text, priority, notes, user.Username)
	if err != nil {
		if errs.IsValidation(err) {
			h.ErrLog.LogBadRequest(w, r, "invalid weekly task", err, err.Error(), backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "add weekly task failed", err, "Unable to add the task.", backURL)
		return
	}

	h.Log.Debug("weekly task added",
		zap.String("group", group.ID.Hex()),
		zap.String("task", task.ID))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleToggleTask flips a weekly task's done state. Any group member may
// toggle; completing a task schedules next week's copy. The route param is
// the task's id, but older board forms post the task's list index, so a
// small integer that matches no id is resolved against the current list.
// POST /groups/{id}/toggle_task/{taskID}
func (h *Handler) HandleToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanViewBoard(user, group) {
		h.ErrLog.LogForbidden(w, r, "weekly task toggle denied", "You are not a member of that group.", "/")
		return
	}

	taskID := resolveTaskID(group, chi.URLParam(r, "taskID"))
	if taskID == "" {
		uierrors.RenderNotFound(w, r, "That task doesn't exist.", backURL)
		return
	}

	toggled, err := h.Groups.ToggleWeeklyTask(ctx, group.ID, taskID, user.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That task doesn't exist.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "toggle weekly task failed", err, "Unable to update the task.", backURL)
		return
	}

	h.Log.Debug("weekly task toggled",
		zap.String("group", group.ID.Hex()),
		zap.String("task", toggled.ID),
		zap.Bool("done", toggled.Done),
		zap.String("by", user.Username))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// resolveTaskID maps a route param to a weekly task id, accepting either
// the id itself or a legacy list index.
func resolveTaskID(group *models.Group, param string) string {
	for _, t := range group.WeeklyTasks {
		if t.ID == param {
			return t.ID
		}
	}
	if idx, err := strconv.Atoi(param); err == nil {
		if t, ok := group.WeeklyTaskByIndex(idx); ok {
			return t.ID
		}
	}
	return ""
}
