// internal/app/features/groups/hub.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type hubData struct {
	viewdata.BaseVM
	Groups []hubGroup

	// Re-populated form state after a failed create.
	FormName  string
	FormTitle string
	FormError string
}

type hubGroup struct {
	models.Group
	MemberCount int
}

// ServeHub renders the manager's group list with the create form.
// GET /groups
func (h *Handler) ServeHub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	h.renderHub(ctx, w, r, hubData{
		BaseVM: viewdata.NewBaseVM(r, "Groups", "/"),
	})
}

// HandleCreate creates a group. The creating manager becomes the
// supervisor.
// POST /groups/add
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	memberTitle := strings.TrimSpace(r.FormValue("member_title"))
	supervisor := authz.Username(r)

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	group, err := h.Groups.Create(ctx, name, supervisor, memberTitle)
	if err != nil {
		var msg string
		switch {
		case errs.IsValidation(err):
			msg = err.Error()
		case errors.Is(err, groupstore.ErrDuplicateGroupName):
			msg = "A group with that name already exists."
		default:
			h.ErrLog.LogServerError(w, r, "create group failed", err, "Unable to create the group.", "/groups")
			return
		}
		h.renderHub(ctx, w, r, hubData{
			BaseVM:    viewdata.NewBaseVM(r, "Groups", "/"),
			FormName:  name,
			FormTitle: memberTitle,
			FormError: msg,
		})
		return
	}

	h.Log.Info("group created",
		zap.String("id", group.ID.Hex()),
		zap.String("name", group.Name),
		zap.String("supervisor", supervisor))

	http.Redirect(w, r, "/groups/"+group.ID.Hex(), http.StatusSeeOther)
}

func (h *Handler) renderHub(ctx context.Context, w http.ResponseWriter, r *http.Request, data hubData) {
	all, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, "A database error occurred.", "/")
		return
	}

	data.Groups = make([]hubGroup, 0, len(all))
	for _, g := range all {
		data.Groups = append(data.Groups, hubGroup{Group: g, MemberCount: len(g.Members)})
	}

	templates.Render(w, r, "group_hub", data)
}
