// internal/app/features/titles/handler.go
package titles

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	titlestore "github.com/dalemusser/crewdeck/internal/app/store/titles"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler covers the title registry: the central list of job titles and
// which members hold them.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Titles *titlestore.Store
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Titles: titlestore.New(db),
		Users:  userstore.New(db),
	}
}

// Entry is one registry row: a title and its current holders.
type Entry struct {
	Title   models.Title
	Holders []models.User
}

type registryData struct {
	viewdata.BaseVM
	Entries  []Entry
	Untitled []models.User
	Members  []models.User
}

// ServeRegistry renders the title registry with holders per title and the
// members who hold none.
// GET /titles
func (h *Handler) ServeRegistry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	titles, err := h.Titles.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list titles failed", err, "A database error occurred.", "/")
		return
	}
	members, err := h.Users.ListMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/")
		return
	}

	entries := make([]Entry, 0, len(titles))
	for _, title := range titles {
		e := Entry{Title: title}
		for _, m := range members {
			if m.HasTitle(title.Name) {
				e.Holders = append(e.Holders, m)
			}
		}
		entries = append(entries, e)
	}

	var untitled []models.User
	for _, m := range members {
		if len(m.Titles) == 0 {
			untitled = append(untitled, m)
		}
	}

	data := registryData{
		BaseVM:   viewdata.NewBaseVM(r, "Titles", "/"),
		Entries:  entries,
		Untitled: untitled,
		Members:  members,
	}
	templates.Render(w, r, "title_registry", data)
}

// HandleCreate adds a title to the registry.
// POST /titles/add
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	_, err := h.Titles.Create(ctx, name, authz.Username(r))
	if err != nil {
		switch {
		case errs.IsValidation(err):
			h.ErrLog.LogBadRequest(w, r, "invalid title", err, err.Error(), "/titles")
		case errors.Is(err, titlestore.ErrDuplicateTitle):
			h.ErrLog.LogBadRequest(w, r, "duplicate title", err, "That title already exists.", "/titles")
		default:
			h.ErrLog.LogServerError(w, r, "create title failed", err, "Unable to create the title.", "/titles")
		}
		return
	}

	http.Redirect(w, r, "/titles", http.StatusSeeOther)
}

// HandleUpdate assigns or unassigns a title on a member.
// POST /titles/update
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	title := strings.TrimSpace(r.FormValue("title"))
	action := r.FormValue("action")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	// Only registered titles can be assigned.
	exists, err := h.Titles.Exists(ctx, title)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "title lookup failed", err, "A database error occurred.", "/titles")
		return
	}
	if !exists {
		h.ErrLog.LogBadRequest(w, r, "assign of unregistered title", nil, "That title isn't in the registry.", "/titles")
		return
	}

	switch action {
	case "assign":
		err = h.Users.AssignTitle(ctx, username, title)
	case "unassign":
		err = h.Users.UnassignTitle(ctx, username, title)
	default:
		h.ErrLog.LogBadRequest(w, r, "bad title action", nil, "Unknown action.", "/titles")
		return
	}
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "title update for unknown user", err, "No account with that username.", "/titles")
			return
		}
		h.ErrLog.LogServerError(w, r, "title update failed", err, "Unable to update the title.", "/titles")
		return
	}

	h.Log.Info("title updated",
		zap.String("username", username),
		zap.String("title", title),
		zap.String("action", action))

	http.Redirect(w, r, "/titles", http.StatusSeeOther)
}

// HandleRemove deletes a title from the registry and strips it from every
// member holding it.
// POST /titles/delete
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Titles.Remove(ctx, name); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That title doesn't exist.", "/titles")
			return
		}
		h.ErrLog.LogServerError(w, r, "remove title failed", err, "Unable to remove the title.", "/titles")
		return
	}

	cleared, err := h.Users.ClearTitleEverywhere(ctx, name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "title cascade failed", err, "The title was removed but some holders may still show it.", "/titles")
		return
	}

	h.Log.Info("title removed",
		zap.String("title", name),
		zap.Int64("holders_cleared", cleared))

	http.Redirect(w, r, "/titles", http.StatusSeeOther)
}
