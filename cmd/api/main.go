package main

// @title           Fieldbook Backend API
// @version         1.0
// @description     Technician dashboard analytics and subscription ledger API.
// @termsOfService  http://example.com/terms/

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8888
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/internal/app"
)

func main() {
	os.Exit(run())
}

// run starts the application and blocks until fx receives SIGINT/SIGTERM.
func run() int {
	a := fx.New(app.Module)

	startCtx, cancelStart := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancelStart()
	if err := a.Start(startCtx); err != nil {
		// The app logger may not have been built yet.
		zap.NewExample().Sugar().Errorw("app_start_failed", "err", err)
		return 1
	}

	sig := <-a.Wait()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer cancelStop()
	if err := a.Stop(stopCtx); err != nil {
		zap.NewExample().Sugar().Errorw("app_stop_failed", "exit_code", sig.ExitCode, "err", err)
		return 1
	}
	return sig.ExitCode
}
