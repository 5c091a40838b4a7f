// internal/app/features/groups/members.go
package groups

import (
	"errors"
	"net/http"

	"github.com/dalemusser/crewdeck/internal/app/policy/grouppolicy"
	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"go.uber.org/zap"
)

// HandleAddMember adds a user to a group's roster. Supervisor or manager
// only.
// POST /groups/{id}/add_member
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanManage(user, group) {
		h.ErrLog.LogForbidden(w, r, "roster add denied", "Only the supervisor can change the roster.", backURL)
		return
	}

	username := normalize.Username(r.FormValue("username"))
	if username == "" {
		h.ErrLog.LogBadRequest(w, r, "empty roster username", nil, "A username is required.", backURL)
		return
	}

	if _, err := h.Users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "roster add for unknown user", err, "No account with that username.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", backURL)
		return
	}

	if err := h.Groups.AddMember(ctx, group.ID, username); err != nil {
		h.ErrLog.LogServerError(w, r, "roster add failed", err, "Unable to add the member.", backURL)
		return
	}

	h.Log.Info("group member added",
		zap.String("group", group.ID.Hex()),
		zap.String("username", username),
		zap.String("by", user.Username))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleRemoveMember removes a user from a group's roster. The supervisor
// cannot be removed.
// POST /groups/{id}/remove_member
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanManage(user, group) {
		h.ErrLog.LogForbidden(w, r, "roster remove denied", "Only the supervisor can change the roster.", backURL)
		return
	}

	username := normalize.Username(r.FormValue("username"))
	if err := h.Groups.RemoveMember(ctx, group.ID, username); err != nil {
		switch {
		case errors.Is(err, errs.ErrForbidden):
			h.ErrLog.LogForbidden(w, r, "supervisor removal attempt", "The supervisor cannot be removed from the group.", backURL)
		case errors.Is(err, errs.ErrNotFound):
			h.ErrLog.LogBadRequest(w, r, "roster remove for unknown group", err, "That group doesn't exist.", "/groups")
		default:
			h.ErrLog.LogServerError(w, r, "roster remove failed", err, "Unable to remove the member.", backURL)
		}
		return
	}

	h.Log.Info("group member removed",
		zap.String("group", group.ID.Hex()),
		zap.String("username", username),
		zap.String("by", user.Username))

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
