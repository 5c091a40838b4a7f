// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	messagestore "github.com/dalemusser/crewdeck/internal/app/store/messages"
	reminderstore "github.com/dalemusser/crewdeck/internal/app/store/reminders"
	seenstore "github.com/dalemusser/crewdeck/internal/app/store/seen"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/domain/taskview"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the home page. What renders depends on who's asking:
// managers get the team overview, members their personal view, and
// visitors are sent to the login page.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Tasks     *taskstore.Store
	Groups    *groupstore.Store
	Messages  *messagestore.Store
	Seen      *seenstore.Store
	Reminders *reminderstore.Store
	Users     *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Tasks:     taskstore.New(db),
		Groups:    groupstore.New(db),
		Messages:  messagestore.New(db),
		Seen:      seenstore.New(db),
		Reminders: reminderstore.New(db),
		Users:     userstore.New(db),
	}
}

// ServeHome dispatches the home page by role.
// GET /
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	role, _, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if role == models.RoleManager {
		h.serveManagerHome(w, r)
		return
	}
	h.serveMemberHome(w, r)
}

type managerHomeData struct {
	viewdata.BaseVM
	OpenTasks    int
	OverdueTasks []taskview.Entry
	DueToday     int
	MemberCount  int
	GroupCount   int
}

func (h *Handler) serveManagerHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	all, err := h.Tasks.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "A database error occurred.", "/")
		return
	}
	members, err := h.Users.ListMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/")
		return
	}
	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, "A database error occurred.", "/")
		return
	}

	now := time.Now().UTC()
	entries := taskview.Build(all, taskview.Query{Sort: taskview.SortDue, Assignee: taskview.FilterAll}, now)

	data := managerHomeData{
		BaseVM:      viewdata.NewBaseVM(r, "Overview", "/"),
		MemberCount: len(members),
		GroupCount:  len(groups),
	}
	for _, e := range entries {
		if e.Task.Done {
			continue
		}
		data.OpenTasks++
		if e.Overdue {
			data.OverdueTasks = append(data.OverdueTasks, e)
		}
		if e.DueToday {
			data.DueToday++
		}
	}

	templates.Render(w, r, "home_manager", data)
}

// GroupCard is one group on the member home, with its unread count.
type GroupCard struct {
	Group  models.Group
	Unread int64
}

// ReminderRow flags reminders whose due time has arrived.
type ReminderRow struct {
	Reminder models.Reminder
	DueNow   bool
}

type memberHomeData struct {
	viewdata.BaseVM
	Entries   []taskview.Entry
	Groups    []GroupCard
	Reminders []ReminderRow
}

func (h *Handler) serveMemberHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/")
		return
	}

	mine, err := h.Tasks.ListForUser(ctx, user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "A database error occurred.", "/")
		return
	}

	groups, err := h.Groups.ListForUser(ctx, user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, "A database error occurred.", "/")
		return
	}
	markers, err := h.Seen.Markers(ctx, user.Username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load seen markers failed", err, "A database error occurred.", "/")
		return
	}
	cards := make([]GroupCard, 0, len(groups))
	for _, g := range groups {
		unread, err := h.Messages.CountSince(ctx, g.ID, markers[g.ID])
		if err != nil {
			h.ErrLog.LogServerError(w, r, "count unread failed", err, "A database error occurred.", "/")
			return
		}
		cards = append(cards, GroupCard{Group: g, Unread: unread})
	}

	rems, err := h.Reminders.List(ctx, user.Username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reminders failed", err, "A database error occurred.", "/")
		return
	}
	now := time.Now().UTC()
	rows := make([]ReminderRow, 0, len(rems))
	for _, rem := range rems {
		rows = append(rows, ReminderRow{
			Reminder: rem,
			DueNow:   !rem.Done && rem.DueAt != nil && !rem.DueAt.After(now),
		})
	}

	data := memberHomeData{
		BaseVM:    viewdata.NewBaseVM(r, "My day", "/"),
		Entries:   taskview.Build(mine, taskview.Query{Sort: taskview.SortDue, Assignee: taskview.FilterAll}, now),
		Groups:    cards,
		Reminders: rows,
	}
	templates.Render(w, r, "home_member", data)
}
