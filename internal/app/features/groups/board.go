// internal/app/features/groups/board.go
package groups

import (
	"net/http"

	"github.com/dalemusser/crewdeck/internal/app/policy/grouppolicy"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/dalemusser/crewdeck/internal/domain/models"
)

type boardData struct {
	viewdata.BaseVM
	Group     *models.Group
	Messages  []models.Message
	Pinned    []models.Message
	Roster    []models.User
	CanManage bool
	CanPost   bool
}

// ServeBoard renders a group's board: weekly tasks, chat history, pinned
// messages and roster. Opening the board marks the chat read up to the
// newest message.
// GET /groups/{id}
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	group, user, ok := h.loadGroupAndUser(ctx, w, r)
	if !ok {
		return
	}

	if !grouppolicy.CanViewBoard(user, group) {
		h.ErrLog.LogForbidden(w, r, "board view denied", "You are not a member of that group.", "/")
		return
	}

	history, err := h.Messages.History(ctx, group.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load chat history failed", err, "A database error occurred.", "/")
		return
	}
	pinned, err := h.Messages.Pinned(ctx, group.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load pinned messages failed", err, "A database error occurred.", "/")
		return
	}

	everyone, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.", "/")
		return
	}
	roster := grouppolicy.ResolveMembers(group, everyone)

	if len(history) > 0 {
		latest := history[len(history)-1].Seq
		if err := h.Seen.MarkRead(ctx, user.Username, group.ID, latest); err != nil {
			h.Log.Warn("mark read failed",
				zap.String("group", group.ID.Hex()),
				zap.String("username", user.Username),
				zap.Error(err))
		}
	}

	data := boardData{
		BaseVM:    viewdata.NewBaseVM(r, group.Name, "/"),
		Group:     group,
		Messages:  history,
		Pinned:    pinned,
		Roster:    roster,
		CanManage: grouppolicy.CanManage(user, group),
		CanPost:   grouppolicy.CanPost(user, group),
	}
	templates.Render(w, r, "group_board", data)
}
