// internal/app/features/signup/handler.go
package signup

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves self-service account creation. Signup always creates a
// member account; manager accounts come from seeding or an existing
// manager.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
	}
}

type signupFormData struct {
	viewdata.BaseVM
	Error       string
	Username    string
	DisplayName string
}

// ServeSignup renders the account creation form.
// GET /signup
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "signup", signupFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create account", "/login"),
	})
}

// HandleSignupPost creates the account and signs the new member in.
// POST /signup
func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signup form failed", err, "Invalid form data.", "/signup")
		return
	}

	username := r.PostFormValue("username")
	displayName := r.PostFormValue("display_name")
	password := r.PostFormValue("password")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	u, err := h.Users.Create(ctx, username, displayName, password, models.RoleMember)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, userstore.ErrDuplicateUsername):
			msg = "That username is already taken."
		case errs.IsValidation(err):
			msg = err.Error()
		default:
			h.ErrLog.LogServerError(w, r, "create account failed", err, "A database error occurred.", "/signup")
			return
		}
		templates.Render(w, r, "signup", signupFormData{
			BaseVM:      viewdata.NewBaseVM(r, "Create account", "/login"),
			Error:       msg,
			Username:    username,
			DisplayName: displayName,
		})
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		Username: u.Username,
		Name:     u.DisplayName,
		Role:     u.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "session write failed", err, "Account created; please sign in.", "/login")
		return
	}

	h.Log.Info("account created", zap.String("username", u.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
