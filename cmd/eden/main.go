package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clientcmd "github.com/s4nju/eden/internal/cmd/client"
	daemoncmd "github.com/s4nju/eden/internal/cmd/daemon"
	cfgpkg "github.com/s4nju/eden/internal/config"
	logpkg "github.com/s4nju/eden/pkg/log"
	"github.com/spf13/cobra"
)

func apiURL() string {
	if v := os.Getenv("EDEN_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8181"
}

func main() {
	level := logpkg.ParseLevel(os.Getenv("EDEN_LOG_LEVEL"))
	logger := logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "eden",
		Short: "eden runtime CLI",
		Long:  "eden is a single-binary journal daemon. This CLI manages the daemon and mount/journal operations.",
	}

	daemonCmd := &cobra.Command{Use: "daemon", Short: "Daemon commands"}
	daemonStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the eden daemon (HTTP API)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			memLimit, _ := cmd.Flags().GetUint64("memory-limit-bytes")

			cfg := cfgpkg.Default()
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			if memLimit > 0 {
				cfg.MemoryLimitBytes = memLimit
			}
			switch fsyncMode {
			case "always":
				cfg.Fsync = cfgpkg.FsyncAlways
			case "interval":
				cfg.Fsync = cfgpkg.FsyncInterval
			case "never":
				cfg.Fsync = cfgpkg.FsyncNever
			case "":
				// keep default
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}
			cfg.FsyncInterval = fsyncIntervalMs
			cfgpkg.FromEnv(&cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return daemoncmd.Run(ctx, daemoncmd.Options{Config: cfg})
		},
	}
	daemonStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	daemonStartCmd.Flags().String("http", "", "HTTP listen address")
	daemonStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never")
	daemonStartCmd.Flags().Int("fsync-interval-ms", 1000, "When --fsync=interval, group-commit window in ms")
	daemonStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	daemonStartCmd.Flags().String("log-format", "", "Log format: text|json")
	daemonStartCmd.Flags().Uint64("memory-limit-bytes", 0, "Per-mount journal memory budget in bytes")
	daemonCmd.AddCommand(daemonStartCmd)
	rootCmd.AddCommand(daemonCmd)

	client := clientcmd.NewRoot(apiURL)
	rootCmd.AddCommand(client.Commands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
