// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	messagestore "github.com/dalemusser/crewdeck/internal/app/store/messages"
	seenstore "github.com/dalemusser/crewdeck/internal/app/store/seen"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for group boards and their chat.
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

// loadGroupAndUser resolves the {id} route param to a group and loads the
// current user's record. On failure it has already written the response
// and returns ok=false.
func (h *Handler) loadGroupAndUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Group, *models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad group id", err, "That group doesn't exist.", "/groups")
		return nil, nil, false
	}

	group, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That group doesn't exist.", "/groups")
			return nil, nil, false
		}
		h.ErrLog.LogServerError(w, r, "load group failed", err, "A database error occurred.", "/groups")
		return nil, nil, false
	}

	user, err := h.Users.GetByUsername(ctx, authz.Username(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/groups")
		return nil, nil, false
	}

	return group, user, true
}
