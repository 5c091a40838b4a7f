// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/crewdeck/internal/app/system/viewdata"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

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

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

// ServeLogin renders the sign-in form.
// GET /login
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: safeReturnURL(r.URL.Query().Get("return")),
	}
	templates.Render(w, r, "login", data)
}

// HandleLoginPost checks credentials and starts a session.
// POST /login
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	returnURL := safeReturnURL(r.PostFormValue("return"))

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, username, password)
	if err != nil {
		// One generic message for both unknown user and bad password; the
		// log keeps them apart.
		if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrForbidden) {
			h.Log.Info("login rejected",
				zap.String("username", username),
				zap.Bool("unknown_user", errors.Is(err, errs.ErrNotFound)))
			data := loginFormData{
				BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
				Error:     "Invalid username or password.",
				Username:  username,
				ReturnURL: returnURL,
			}
			templates.Render(w, r, "login", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "A database error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		Username: u.Username,
		Name:     u.DisplayName,
		Role:     u.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "session write failed", err, "Unable to start a session.", "/login")
		return
	}

	h.Log.Info("user signed in",
		zap.String("username", u.Username),
		zap.String("role", u.Role))

	if returnURL == "" {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// safeReturnURL only accepts same-site paths, never absolute URLs.
func safeReturnURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return u.RequestURI()
}
