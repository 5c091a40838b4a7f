// internal/app/features/chats/handler.go
package chats

import (
	"net/http"
	"sort"
	"time"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	messagestore "github.com/dalemusser/crewdeck/internal/app/store/messages"
	seenstore "github.com/dalemusser/crewdeck/internal/app/store/seen"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the chat hub: every group the user belongs to, with
// unread counts and a preview of the latest message.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Groups   *groupstore.Store
	Messages *messagestore.Store
	Seen     *seenstore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Groups:   groupstore.New(db),
		Messages: messagestore.New(db),
		Seen:     seenstore.New(db),
		Users:    userstore.New(db),
	}
}

// Card is one group's entry on the hub.
type Card struct {
	Group       models.Group
	Unread      int64
	LatestText  string
	LatestFrom  string
	LatestAt    time.Time
	HasMessages bool
}

type hubData struct {
	viewdata.BaseVM
	Cards       []Card
	TotalUnread int64
}

// ServeHub renders the chat hub, newest conversation first.
// GET /chats
func (h *Handler) ServeHub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/")
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

	cards := make([]Card, 0, len(groups))
	var total int64
	for _, g := range groups {
		card := Card{Group: g}

		latest, err := h.Messages.Latest(ctx, g.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load latest message failed", err, "A database error occurred.", "/")
			return
		}
		if latest != nil {
			card.HasMessages = true
			card.LatestText = latest.Text
			card.LatestFrom = latest.Sender
			card.LatestAt = latest.Timestamp

			unread, err := h.Messages.CountSince(ctx, g.ID, markers[g.ID])
			if err != nil {
				h.ErrLog.LogServerError(w, r, "count unread failed", err, "A database error occurred.", "/")
				return
			}
			card.Unread = unread
			total += unread
		}

		cards = append(cards, card)
	}

	// Active conversations first, then quiet groups by name.
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if a.HasMessages != b.HasMessages {
			return a.HasMessages
		}
		if a.HasMessages && !a.LatestAt.Equal(b.LatestAt) {
			return a.LatestAt.After(b.LatestAt)
		}
		return a.Group.Name < b.Group.Name
	})

	data := hubData{
		BaseVM:      viewdata.NewBaseVM(r, "Chats", "/"),
		Cards:       cards,
		TotalUnread: total,
	}
	templates.Render(w, r, "chat_hub", data)
}
