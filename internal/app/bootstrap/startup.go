// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// If admin_email is configured and that account exists, it is promoted to
// admin so a fresh deployment has an operator. A missing account is only a
// warning: the operator may simply not have registered yet.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	users := userstore.New(deps.MongoDatabase)
	err := users.PromoteAdminByEmail(opCtx, appCfg.AdminEmail)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		logger.Warn("admin bootstrap: no account with configured email yet",
			zap.String("email", appCfg.AdminEmail))
	case err != nil:
		return err
	default:
		logger.Info("admin bootstrap: account promoted",
			zap.String("email", appCfg.AdminEmail))
	}
	return nil
}
