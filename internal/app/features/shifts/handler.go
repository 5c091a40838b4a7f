// internal/app/features/shifts/handler.go
package shifts

import (
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	shiftstore "github.com/dalemusser/crewdeck/internal/app/store/shifts"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler covers the shift schedule: the manager's roster view, member
// schedules, and attendance marking.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Shifts *shiftstore.Store
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Shifts: shiftstore.New(db),
		Users:  userstore.New(db),
	}
}

// Row pairs a shift with its recorded attendance, if any.
type Row struct {
	Shift      models.Shift
	Attendance *models.ShiftAttendance
	Past       bool
}

type scheduleData struct {
	viewdata.BaseVM
	Rows    []Row
	Members []models.User
	Mine    bool
}

// ServeSchedule renders the full schedule with the add form.
// GET /shifts
func (h *Handler) ServeSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	all, err := h.Shifts.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list shifts failed", err, "A database error occurred.", "/")
		return
	}
	members, err := h.Users.ListMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/")
		return
	}

	rows, err := h.rowsFor(r, all)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load attendance failed", err, "A database error occurred.", "/")
		return
	}

	data := scheduleData{
		BaseVM:  viewdata.NewBaseVM(r, "Shift schedule", "/"),
		Rows:    rows,
		Members: members,
	}
	templates.Render(w, r, "shift_schedule", data)
}

// ServeMySchedule renders the caller's own shifts.
// GET /my-shifts
func (h *Handler) ServeMySchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	mine, err := h.Shifts.ListForUser(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list shifts failed", err, "A database error occurred.", "/")
		return
	}

	rows, err := h.rowsFor(r, mine)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load attendance failed", err, "A database error occurred.", "/")
		return
	}

	data := scheduleData{
		BaseVM: viewdata.NewBaseVM(r, "My shifts", "/"),
		Rows:   rows,
		Mine:   true,
	}
	templates.Render(w, r, "shift_schedule", data)
}

func (h *Handler) rowsFor(r *http.Request, shifts []models.Shift) ([]Row, error) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	ids := make([]string, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
	}
	attendance, err := h.Shifts.AttendanceByShift(ctx, ids)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rows := make([]Row, 0, len(shifts))
	for _, s := range shifts {
		row := Row{Shift: s, Past: s.Date.Before(today)}
		if a, ok := attendance[s.ID]; ok {
			att := a
			row.Attendance = &att
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HandleCreate adds a shift to the schedule.
// POST /shifts/add
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad shift date", err, "The date must be YYYY-MM-DD.", "/shifts")
		return
	}

	assignedTo := normalize.Username(r.FormValue("assigned_to"))
	startTime := strings.TrimSpace(r.FormValue("start_time"))
	endTime := strings.TrimSpace(r.FormValue("end_time"))
	notes := strings.TrimSpace(r.FormValue("notes"))

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if _, err := h.Users.GetByUsername(ctx, assignedTo); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "shift for unknown user", err, "No account with that username.", "/shifts")
			return
		}
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/shifts")
		return
	}

	shift, err := h.Shifts.Create(ctx, date.UTC(), startTime, endTime, assignedTo, notes)
	if err != nil {
		if errs.IsValidation(err) {
			h.ErrLog.LogBadRequest(w, r, "invalid shift", err, err.Error(), "/shifts")
			return
		}
		h.ErrLog.LogServerError(w, r, "create shift failed", err, "Unable to add the shift.", "/shifts")
		return
	}

	h.Log.Info("shift created",
		zap.String("id", shift.ID),
		zap.String("assigned_to", assignedTo),
		zap.Time("date", shift.Date))

	http.Redirect(w, r, "/shifts", http.StatusSeeOther)
}

// HandleRemove deletes a shift and its attendance record.
// POST /shifts/{id}/delete
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Shifts.Remove(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That shift doesn't exist.", "/shifts")
			return
		}
		h.ErrLog.LogServerError(w, r, "remove shift failed", err, "Unable to remove the shift.", "/shifts")
		return
	}

	http.Redirect(w, r, "/shifts", http.StatusSeeOther)
}

// HandleAttendance records the caller's attendance on their own shift.
// POST /shifts/{id}/attendance
func (h *Handler) HandleAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := r.FormValue("status")
	username := authz.Username(r)

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Shifts.MarkAttendance(ctx, id, username, status); err != nil {
		switch {
		case errs.IsValidation(err):
			h.ErrLog.LogBadRequest(w, r, "bad attendance status", err, err.Error(), "/my-shifts")
		case errors.Is(err, errs.ErrNotFound):
			uierrors.RenderNotFound(w, r, "That shift doesn't exist.", "/my-shifts")
		case errors.Is(err, errs.ErrForbidden):
			h.ErrLog.LogForbidden(w, r, "attendance on foreign shift", "You can only mark your own shifts.", "/my-shifts")
		default:
			h.ErrLog.LogServerError(w, r, "mark attendance failed", err, "Unable to record attendance.", "/my-shifts")
		}
		return
	}

	h.Log.Debug("attendance marked",
		zap.String("shift", id),
		zap.String("username", username),
		zap.String("status", status))

	http.Redirect(w, r, "/my-shifts", http.StatusSeeOther)
}
