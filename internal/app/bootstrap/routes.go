// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/app/engine"
	audittrailfeature "github.com/dalemusser/donorhub/internal/app/features/audittrail"
	authgooglefeature "github.com/dalemusser/donorhub/internal/app/features/authgoogle"
	fundsfeature "github.com/dalemusser/donorhub/internal/app/features/funds"
	geofeature "github.com/dalemusser/donorhub/internal/app/features/geo"
	healthfeature "github.com/dalemusser/donorhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/donorhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/donorhub/internal/app/features/logout"
	registerfeature "github.com/dalemusser/donorhub/internal/app/features/register"
	requestsfeature "github.com/dalemusser/donorhub/internal/app/features/requests"
	userinfofeature "github.com/dalemusser/donorhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/donorhub/internal/app/features/users"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	fundstore "github.com/dalemusser/donorhub/internal/app/store/funds"
	"github.com/dalemusser/donorhub/internal/app/store/oauthstate"
	requeststore "github.com/dalemusser/donorhub/internal/app/store/requests"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/payments"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The session middleware resolves role and status
// from the user directory on every request, so admin role changes and
// blocks take effect on the target's very next call.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Per-request role/status resolution against the users collection.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	users := userstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	funds := fundstore.New(deps.MongoDatabase)
	states := oauthstate.New(deps.MongoDatabase)

	auditStore := audit.New(deps.MongoDatabase)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	eng := engine.New(requests, logger)

	var pay *payments.Client
	if appCfg.PaymentAPIURL != "" {
		pay = payments.New(appCfg.PaymentAPIURL, appCfg.PaymentAPIKey, timeouts.Long(), logger)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Public reference data.
	r.Mount("/geo", geofeature.Routes(geofeature.NewHandler()))

	// Authentication.
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(users, sessionMgr, auditLogger, logger)))
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(users, sessionMgr, auditLogger, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, auditLogger, logger)))
	r.Mount("/auth/google", authgooglefeature.Routes(authgooglefeature.NewHandler(
		users, sessionMgr, auditLogger, states,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)))

	// Current user.
	r.Mount("/me", userinfofeature.Routes(userinfofeature.NewHandler(logger)))

	// Donation requests: the lifecycle surface.
	r.Mount("/requests", requestsfeature.Routes(requestsfeature.NewHandler(eng, auditLogger, logger), sessionMgr))

	// Admin user directory and audit trail.
	r.Mount("/admin/users", usersfeature.Routes(usersfeature.NewHandler(users, auditLogger, logger), sessionMgr))
	r.Mount("/admin/audit", audittrailfeature.Routes(audittrailfeature.NewHandler(auditStore, logger), sessionMgr))

	// Funding.
	r.Mount("/funds", fundsfeature.Routes(fundsfeature.NewHandler(funds, pay, auditLogger, logger), sessionMgr))

	return r, nil
}
