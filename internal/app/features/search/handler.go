// internal/app/features/search/handler.go
package search

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	messagestore "github.com/dalemusser/crewdeck/internal/app/store/messages"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves cross-cutting search over tasks, chat messages and
// members. Everything is filtered by what the caller may see: members
// only match their own tasks and the chats of groups they belong to.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Tasks    *taskstore.Store
	Groups   *groupstore.Store
	Messages *messagestore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Tasks:    taskstore.New(db),
		Groups:   groupstore.New(db),
		Messages: messagestore.New(db),
		Users:    userstore.New(db),
	}
}

// MessageHit pairs a matched message with the group it was posted in.
type MessageHit struct {
	Group   models.Group
	Message models.Message
}

type resultsData struct {
	viewdata.BaseVM
	Query    string
	Tasks    []models.Task
	Messages []MessageHit
	Users    []models.User
}

// ServeSearch handles GET /search?q=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := resultsData{
		BaseVM: viewdata.NewBaseVM(r, "Search", "/"),
		Query:  query,
	}
	if query == "" {
		templates.Render(w, r, "search_results", data)
		return
	}
	needle := text.Fold(query)

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/")
		return
	}

	tasks, err := h.Tasks.ListForUser(ctx, user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "search tasks failed", err, "A database error occurred.", "/")
		return
	}
	for _, t := range tasks {
		if matches(needle, t.Text, t.Notes, t.AssignedDisplay) || matchesTags(needle, t.Tags) {
			data.Tasks = append(data.Tasks, t)
		}
	}

	groups, err := h.Groups.ListForUser(ctx, user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "search groups failed", err, "A database error occurred.", "/")
		return
	}
	for _, g := range groups {
		history, err := h.Messages.History(ctx, g.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "search messages failed", err, "A database error occurred.", "/")
			return
		}
		for _, m := range history {
			if matches(needle, m.Text, m.Sender) {
				data.Messages = append(data.Messages, MessageHit{Group: g, Message: m})
			}
		}
	}

	if user.IsManager() {
		all, err := h.Users.List(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "search users failed", err, "A database error occurred.", "/")
			return
		}
		for _, u := range all {
			if matches(needle, u.Username, u.DisplayName) || matchesTags(needle, u.Titles) {
				data.Users = append(data.Users, u)
			}
		}
	}

	templates.Render(w, r, "search_results", data)
}

func matches(needle string, haystacks ...string) bool {
	for _, s := range haystacks {
		if s != "" && strings.Contains(text.Fold(s), needle) {
			return true
		}
	}
	return false
}

func matchesTags(needle string, tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(text.Fold(tag), needle) {
			return true
		}
	}
	return false
}
