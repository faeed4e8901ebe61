package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/s4nju/eden/internal/config"
	"github.com/s4nju/eden/internal/rpcapi"
	"github.com/s4nju/eden/internal/runtime"
	logpkg "github.com/s4nju/eden/pkg/log"
)

// Options configures a daemon run.
type Options struct {
	Config cfgpkg.Config
}

// Run opens the runtime, starts the RPC server, and blocks until ctx is
// cancelled or a signal arrives.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := logpkg.Config{Level: opts.Config.LogLevel, Format: opts.Config.LogFormat}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("starting eden daemon",
		logpkg.Str("http", opts.Config.HTTPAddr),
		logpkg.Str("data_dir", opts.Config.DataDir),
		logpkg.Str("level", opts.Config.LogLevel),
		logpkg.Str("format", opts.Config.LogFormat),
	)

	srv := rpcapi.New(rt, procLogger.With(logpkg.Component("rpcapi")))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(sctx, opts.Config.HTTPAddr) }()

	select {
	case <-sctx.Done():
		srv.Close()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
