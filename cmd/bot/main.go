package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeworkbot/internal/app"
	"homeworkbot/internal/config"
	logx "homeworkbot/pkg/logx"
)

const stopTimeout = 10 * time.Second

func main() {
	// Startup failures are reported before the configured logger exists.
	boot := logx.NewConsole(os.Getenv(config.EnvLogLevel)).With(logx.String("comp", "boot"))
	if err := config.LoadDotEnv(); err != nil {
		boot.Warn(".env not loaded", logx.Err(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, boot, os.Getenv)
	cancel()
	os.Exit(code)
}

// run starts the bot and blocks until ctx is canceled or a supervised
// goroutine fails. It returns the process exit code.
func run(ctx context.Context, boot logx.Logger, getenv func(string) string) int {
	cfgm := config.NewConfigManager(getenv(config.EnvConfigPath))
	cfgm.SetLogger(boot)
	cfgm.SetEnv(getenv)

	a, err := app.NewApp(cfgm)
	if err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			boot.Critical("required environment variables missing", logx.Strings("missing", missing.Names))
		} else {
			boot.Critical("startup failed", logx.String("config", cfgm.Path()), logx.Err(err))
		}
		return 1
	}

	if err := a.Start(ctx); err != nil {
		a.Logger().Critical("start failed", logx.Err(err))
		return 1
	}

	<-a.Done()

	reason := app.StopSignal
	if ctx.Err() == nil {
		reason = app.StopFatalError
		a.Logger().Critical("supervised goroutine failed", logx.Err(a.Err()))
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := a.Stop(stopCtx, reason); err != nil {
		boot.Error("stopped with error", logx.Err(err))
		return 1
	}
	return 0
}
