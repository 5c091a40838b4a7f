// internal/app/features/calendar/handler.go
package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/policy/taskpolicy"
	shiftstore "github.com/dalemusser/crewdeck/internal/app/store/shifts"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/domain/taskview"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the JSON calendar feeds consumed by the calendar widget.
type Handler struct {
	Log    *zap.Logger
	Tasks  *taskstore.Store
	Shifts *shiftstore.Store
}

func NewHandler(tasks *taskstore.Store, shifts *shiftstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Tasks:  tasks,
		Shifts: shifts,
	}
}

// Event statuses drive the calendar's color coding.
const (
	statusCompleted = "completed"
	statusOverdue   = "overdue"
	statusDueSoon   = "due_soon" // within the next 2 days
	statusUpcoming  = "upcoming"
)

type event struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"` // YYYY-MM-DD
	Kind   string `json:"kind"`  // task | shift
	Status string `json:"status,omitempty"`

	Assignee string `json:"assignee,omitempty"`
	Priority string `json:"priority,omitempty"`
	Time     string `json:"time,omitempty"` // shifts: "08:00–12:00"
}

// ServeCalendar handles GET /api/calendar?scope=my|all.
//
// "my" limits the feed to the caller's own tasks and shifts; "all" is the
// whole-team feed and is manager-only.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	role, username, _, _ := authz.UserCtx(r)

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "my"
	}
	if scope == "all" && role != models.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		h.Log.Error("calendar: list tasks failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var shifts []models.Shift
	if scope == "all" {
		shifts, err = h.Shifts.List(ctx)
	} else {
		shifts, err = h.Shifts.ListForUser(ctx, username)
	}
	if err != nil {
		h.Log.Error("calendar: list shifts failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	today := time.Now().UTC()
	events := make([]event, 0, len(tasks)+len(shifts))
	for _, t := range tasks {
		if t.Due == nil {
			continue
		}
		if scope == "my" && t.AssignedUsername != username {
			continue
		}
		events = append(events, event{
			ID:       t.ID.Hex(),
			Title:    t.Text,
			Start:    t.Due.Format("2006-01-02"),
			Kind:     "task",
			Status:   taskStatus(t, today),
			Assignee: t.AssignedDisplay,
			Priority: t.Priority,
		})
	}
	for _, s := range shifts {
		events = append(events, event{
			ID:       s.ID,
			Title:    "Shift: " + s.AssignedUsername,
			Start:    s.Date.Format("2006-01-02"),
			Kind:     "shift",
			Assignee: s.AssignedUsername,
			Time:     s.StartTime + "–" + s.EndTime,
		})
	}

	writeJSON(w, events)
}

// ServeTaskEvents handles GET /api/tasks/events, the older feed shape the
// first calendar widget consumed. Kept so saved client bookmarks and the
// legacy widget keep working.
func (h *Handler) ServeTaskEvents(w http.ResponseWriter, r *http.Request) {
	role, username, _, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		h.Log.Error("calendar: list tasks failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	type legacyEvent struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Start      string `json:"start"`
		Color      string `json:"color"`
		AssignedTo string `json:"assigned_to"`
		Notes      string `json:"notes,omitempty"`
	}

	today := time.Now().UTC()
	events := make([]legacyEvent, 0, len(tasks))
	for _, t := range tasks {
		if t.Due == nil {
			continue
		}
		if role != models.RoleManager && t.AssignedUsername != username {
			continue
		}
		events = append(events, legacyEvent{
			ID:         t.ID.Hex(),
			Title:      t.Text,
			Start:      t.Due.Format("2006-01-02"),
			Color:      statusColor(taskStatus(t, today)),
			AssignedTo: t.AssignedUsername,
			Notes:      t.Notes,
		})
	}

	writeJSON(w, events)
}

// HandleUpdateDue handles PATCH /api/tasks/{id}/due, the calendar's
// drag-to-reschedule. Manager-only, like every other task edit.
func (h *Handler) HandleUpdateDue(w http.ResponseWriter, r *http.Request) {
	role, username, _, _ := authz.UserCtx(r)
	if !taskpolicy.CanEdit(role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad task id", http.StatusBadRequest)
		return
	}

	var body struct {
		Due string `json:"due"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	due, err := time.Parse("2006-01-02", body.Due)
	if err != nil {
		http.Error(w, "due must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	task, err := h.Tasks.UpdateDue(ctx, id, due.UTC())
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		h.Log.Error("calendar: update due failed", zap.Error(err), zap.String("by", username))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"id":  task.ID.Hex(),
		"due": task.Due.Format("2006-01-02"),
	})
}

func taskStatus(t models.Task, today time.Time) string {
	if t.Done {
		return statusCompleted
	}
	if taskview.IsOverdue(t, today) {
		return statusOverdue
	}
	if t.Due != nil && !t.Due.After(today.AddDate(0, 0, 2)) {
		return statusDueSoon
	}
	return statusUpcoming
}

func statusColor(status string) string {
	switch status {
	case statusCompleted:
		return "#6b7280"
	case statusOverdue:
		return "#dc2626"
	case statusDueSoon:
		return "#f59e0b"
	default:
		return "#2563eb"
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
