// internal/app/features/reminders/handler.go
package reminders

import (
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	reminderstore "github.com/dalemusser/crewdeck/internal/app/store/reminders"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler covers personal reminders. Reminders render on the dashboard;
// this feature only takes the mutations.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Reminders *reminderstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Reminders: reminderstore.New(db),
	}
}

// HandleAdd creates a reminder for the caller.
// POST /reminders/add
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	username := authz.Username(r)
	text := strings.TrimSpace(r.FormValue("text"))
	backURL := httpnav.ResolveBackURL(r, "/")

	var dueAt *time.Time
	if raw := r.FormValue("due_at"); raw != "" {
		// datetime-local posts without a zone; store it as UTC.
		t, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad reminder due", err, "That due time is invalid.", backURL)
			return
		}
		t = t.UTC()
		dueAt = &t
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if _, err := h.Reminders.Add(ctx, username, text, dueAt); err != nil {
		if errs.IsValidation(err) {
			h.ErrLog.LogBadRequest(w, r, "invalid reminder", err, err.Error(), backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "add reminder failed", err, "Unable to add the reminder.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleToggle flips a reminder's done state. Owner only; the store scopes
// the update to the caller, so someone else's id just comes back not found.
// POST /reminders/toggle/{id}
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	username := authz.Username(r)
	backURL := httpnav.ResolveBackURL(r, "/")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Reminders.Toggle(ctx, username, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That reminder doesn't exist.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "toggle reminder failed", err, "Unable to update the reminder.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// HandleRemove deletes a reminder. Owner only.
// POST /reminders/delete/{id}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	username := authz.Username(r)
	backURL := httpnav.ResolveBackURL(r, "/")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Reminders.Remove(ctx, username, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That reminder doesn't exist.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "remove reminder failed", err, "Unable to remove the reminder.", backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
