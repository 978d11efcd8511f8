// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	authgooglefeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/authgoogle"
	healthfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/health"
	loginfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/login"
	logoutfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/logout"
	projectsfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/projects"
	reportsfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/reports"
	tasksfeature "github.com/fcyap/IS212-G3T5-sub004/internal/app/features/tasks"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/reportgen"
	commentstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/comments"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/store/oauthstate"
	projectstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/projects"
	taskstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/tasks"
	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TaskHub builds the session manager,
// constructs the stores and the report engine, and mounts the feature
// routers for authentication, tasks, projects, and reports.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.TaskHubMongoDatabase))

	db := deps.TaskHubMongoDatabase
	users := userstore.New(db)
	tasks := taskstore.New(db)
	projects := projectstore.New(db)
	comments := commentstore.New(db)
	states := oauthstate.New(db)

	engine := reportgen.New(tasks, users, logger)

	r := chi.NewRouter()

	// Cap request body reads before any handler decodes JSON.
	r.Use(limits.BodyLimit)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TaskHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets (the board SPA bundle) with pre-compressed file support
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(users, sessionMgr, states,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	if googleHandler.IsConfigured() {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	} else {
		logger.Info("google oauth not configured; /auth/google routes disabled")
	}

	// Task management
	tasksHandler := tasksfeature.NewHandler(tasks, users, projects, comments, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Project boards
	projectsHandler := projectsfeature.NewHandler(projects, tasks, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	// Reports
	reportsHandler := reportsfeature.NewHandler(engine, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	return r, nil
}
