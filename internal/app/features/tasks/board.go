// internal/app/features/tasks/board.go
package tasks

import (
	"net/http"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/domain/taskview"
	"github.com/dalemusser/waffle/pantry/templates"
)

type boardData struct {
	viewdata.BaseVM
	Entries  []taskview.Entry
	Members  []models.User
	Query    taskview.Query
	SortKeys []sortKey
}

type sortKey struct {
	Value string
	Label string
}

var sortKeys = []sortKey{
	{taskview.SortDue, "Due date"},
	{taskview.SortDueRev, "Due date (latest first)"},
	{taskview.SortPriority, "Priority (high first)"},
	{taskview.SortPriorityRev, "Priority (low first)"},
	{taskview.SortStatus, "Completed"},
	{taskview.SortCreated, "Newest"},
}

// ServeBoard renders the manager task board with sort and filter controls.
// GET /tasks
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)

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

	data := boardData{
		BaseVM:   viewdata.NewBaseVM(r, "Task board", "/"),
		Entries:  taskview.Build(all, q, time.Now().UTC()),
		Members:  members,
		Query:    q,
		SortKeys: sortKeys,
	}
	templates.Render(w, r, "task_board", data)
}

// ServeOverdue renders the overdue tasks board.
// GET /tasks/overdue
func (h *Handler) ServeOverdue(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	q.DueBucket = taskview.BucketOverdue

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	all, err := h.Tasks.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "A database error occurred.", "/tasks")
		return
	}

	data := boardData{
		BaseVM:   viewdata.NewBaseVM(r, "Overdue tasks", "/tasks"),
		Entries:  taskview.Build(all, q, time.Now().UTC()),
		Query:    q,
		SortKeys: sortKeys,
	}
	templates.Render(w, r, "task_overdue", data)
}

// parseQuery reads the board's sort/filter controls off the URL.
func parseQuery(r *http.Request) taskview.Query {
	values := r.URL.Query()

	q := taskview.Query{
		Sort:      values.Get("sort"),
		Assignee:  values.Get("assignee"),
		DueBucket: values.Get("due"),
	}
	if q.Assignee == "" {
		q.Assignee = taskview.FilterAll
	}
	for _, p := range values["priority"] {
		if models.IsValidPriority(p) {
			q.Priorities = append(q.Priorities, p)
		}
	}
	if tags := values["tag"]; len(tags) > 0 {
		q.Tags = tags
	}
	if from := parseDate(values.Get("from")); from != nil {
		q.DueFrom = from
	}
	if to := parseDate(values.Get("to")); to != nil {
		q.DueTo = to
	}
	return q
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
