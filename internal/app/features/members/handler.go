// internal/app/features/members/handler.go
package members

import (
	"net/http"
	"sort"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the manager's team roster.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
	Tasks  *taskstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
		Tasks:  taskstore.New(db),
	}
}

// Row is one member on the roster with their current workload.
type Row struct {
	User      models.User
	OpenTasks int
}

type rosterData struct {
	viewdata.BaseVM
	Rows []Row
}

// ServeRoster renders the team list with lifetime completions and the
// current open-task count per member, busiest first.
// GET /members
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	members, err := h.Users.ListMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/")
		return
	}
	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "A database error occurred.", "/")
		return
	}

	open := make(map[string]int)
	for _, t := range tasks {
		if !t.Done && t.AssignedUsername != "" {
			open[t.AssignedUsername]++
		}
	}

	rows := make([]Row, 0, len(members))
	for _, m := range members {
		rows = append(rows, Row{User: m, OpenTasks: open[m.Username]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OpenTasks != rows[j].OpenTasks {
			return rows[i].OpenTasks > rows[j].OpenTasks
		}
		return rows[i].User.Username < rows[j].User.Username
	})

	data := rosterData{
		BaseVM: viewdata.NewBaseVM(r, "Team", "/"),
		Rows:   rows,
	}
	templates.Render(w, r, "member_roster", data)
}
