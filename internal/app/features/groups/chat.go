// internal/app/features/groups/chat.go
package groups

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/app/policy/grouppolicy"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleMessage posts a chat message to a group. The sequence number is
// claimed from the group document first, so messages order consistently
// even when two members post at once.
// POST /groups/{id}/message
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanPost(user, group) {
		h.ErrLog.LogForbidden(w, r, "chat post denied", "You are not a member of that group.", "/")
		return
	}

	text := r.FormValue("text")
	image := strings.TrimSpace(r.FormValue("image"))

	seq, ts, err := h.Groups.ClaimMessageSeq(ctx, group.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "claim message seq failed", err, "Unable to post the message.", backURL)
		return
	}

	msg, err := h.Messages.Post(ctx, group.ID, seq, ts, user.Username, text, image)
	if err != nil {
		if errs.IsValidation(err) {
			h.ErrLog.LogBadRequest(w, r, "empty chat message", err, err.Error(), backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "post message failed", err, "Unable to post the message.", backURL)
		return
	}

	// The sender has obviously seen their own message.
	if err := h.Seen.MarkRead(ctx, user.Username, group.ID, msg.Seq); err != nil {
		h.Log.Warn("mark read failed", zap.String("username", user.Username), zap.Error(err))
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandlePin toggles a message's pinned state. Supervisor or manager only.
// POST /groups/{id}/pin/{msgID}
func (h *Handler) HandlePin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanManage(user, group) {
		h.ErrLog.LogForbidden(w, r, "pin denied", "Only the supervisor can pin messages.", backURL)
		return
	}

	msgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "msgID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad message id", err, "That message doesn't exist.", backURL)
		return
	}

	pinned := r.FormValue("pinned") != "false"
	if err := h.Messages.SetPinned(ctx, group.ID, msgID, pinned); err != nil {
		h.ErrLog.LogServerError(w, r, "pin message failed", err, "Unable to pin the message.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleDeleteMessage removes a message from a group's chat. Supervisor or
// manager only.
// POST /groups/{id}/delete/{msgID}
func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}
	backURL := "/groups/" + group.ID.Hex()

	if !grouppolicy.CanManage(user, group) {
		h.ErrLog.LogForbidden(w, r, "message delete denied", "Only the supervisor can delete messages.", backURL)
		return
	}

	msgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "msgID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad message id", err, "That message doesn't exist.", backURL)
		return
	}

	if err := h.Messages.Remove(ctx, group.ID, msgID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That message doesn't exist.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "delete message failed", err, "Unable to delete the message.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleMarkAllRead marks every group the caller belongs to as read.
// POST /groups/mark_all_read
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/chats")
		return
	}

	groups, err := h.Groups.ListForUser(ctx, user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, "A database error occurred.", "/chats")
		return
	}

	for i := range groups {
		latest, err := h.Messages.Latest(ctx, groups[i].ID)
		if err != nil || latest == nil {
			continue
		}
		if err := h.Seen.MarkRead(ctx, user.Username, groups[i].ID, latest.Seq); err != nil {
			h.Log.Warn("mark read failed",
				zap.String("group", groups[i].ID.Hex()),
				zap.Error(err))
		}
	}

	http.Redirect(w, r, "/chats", http.StatusSeeOther)
}
