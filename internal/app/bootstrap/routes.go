// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	calendarfeature "github.com/dalemusser/crewdeck/internal/app/features/calendar"
	chatsfeature "github.com/dalemusser/crewdeck/internal/app/features/chats"
	dashboardfeature "github.com/dalemusser/crewdeck/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/crewdeck/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/crewdeck/internal/app/features/groups"
	healthfeature "github.com/dalemusser/crewdeck/internal/app/features/health"
	loginfeature "github.com/dalemusser/crewdeck/internal/app/features/login"
	logoutfeature "github.com/dalemusser/crewdeck/internal/app/features/logout"
	membersfeature "github.com/dalemusser/crewdeck/internal/app/features/members"
	remindersfeature "github.com/dalemusser/crewdeck/internal/app/features/reminders"
	searchfeature "github.com/dalemusser/crewdeck/internal/app/features/search"
	shiftsfeature "github.com/dalemusser/crewdeck/internal/app/features/shifts"
	signupfeature "github.com/dalemusser/crewdeck/internal/app/features/signup"
	tasksfeature "github.com/dalemusser/crewdeck/internal/app/features/tasks"
	titlesfeature "github.com/dalemusser/crewdeck/internal/app/features/titles"
	shiftstore "github.com/dalemusser/crewdeck/internal/app/store/shifts"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	_ "github.com/dalemusser/crewdeck/internal/app/features/shared/views"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It boots the template engine, applies
// session and CSRF middleware, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.CrewDeckMongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CrewDeckMongoClient, logger)
	r.Mount("/healthz", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	signupHandler := signupfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based home page
	dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
	r.Mount("/", dashboardfeature.Routes(dashboardHandler))

	// Task board
	tasksHandler := tasksfeature.NewHandler(db, errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Group boards and chat
	groupsHandler := groupsfeature.NewHandler(db, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	chatsHandler := chatsfeature.NewHandler(db, errLog, logger)
	r.Mount("/chats", chatsfeature.Routes(chatsHandler, sessionMgr))

	// Team management
	membersHandler := membersfeature.NewHandler(db, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	titlesHandler := titlesfeature.NewHandler(db, errLog, logger)
	r.Mount("/titles", titlesfeature.Routes(titlesHandler, sessionMgr))

	// Shift schedule
	shiftsHandler := shiftsfeature.NewHandler(db, errLog, logger)
	r.Mount("/shifts", shiftsfeature.Routes(shiftsHandler, sessionMgr))
	r.Mount("/my-shifts", shiftsfeature.MyRoutes(shiftsHandler, sessionMgr))

	// Personal reminders
	remindersHandler := remindersfeature.NewHandler(db, errLog, logger)
	r.Mount("/reminders", remindersfeature.Routes(remindersHandler, sessionMgr))

	// Search
	searchHandler := searchfeature.NewHandler(db, errLog, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler, sessionMgr))

	// Calendar JSON feeds
	calendarHandler := calendarfeature.NewHandler(taskstore.New(db), shiftstore.New(db), logger)
	r.Mount("/api", calendarfeature.Routes(calendarHandler, sessionMgr))

	return r, nil
}
