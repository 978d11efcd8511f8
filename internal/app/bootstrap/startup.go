// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/store/oauthstate"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/workers"
	"go.uber.org/zap"
)

// stateCleanup is started in Startup and stopped in Shutdown.
var stateCleanup *workers.StateCleanup

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It applies handler timeout overrides and starts background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Long: appCfg.ReportTimeout,
	})

	stateCleanup = workers.NewStateCleanup(
		oauthstate.New(deps.TaskHubMongoDatabase),
		logger,
		appCfg.StateCleanupInterval,
	)
	stateCleanup.Start()

	return nil
}
