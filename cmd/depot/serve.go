package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wharfline/depot/internal/alert"
	"github.com/wharfline/depot/internal/dashboard"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the warehouse dashboard",
		Long:  "Serves the JSON API and event stream, and runs the storage-expiry watcher when enabled in config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "dashboard port (default: from config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port <= 0 {
		port = cfg.Dashboard.Port
	}

	eng, err := openEngine(cfg)
	if err != nil {
		return err
	}
	renderer, exp, err := newExporter(cfg)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Expiry.Enabled {
		notifier, err := alert.NewSlackNotifier(cfg.Slack.Token)
		if err != nil {
			return err
		}
		watcher, err := alert.NewWatcher(alert.WatcherOpts{
			Engine:   eng,
			Notifier: notifier,
			Channel:  cfg.Slack.Channel,
			Schedule: cfg.Expiry.Schedule,
			WarnDays: cfg.Expiry.WarnDays,
			Logger:   logger.Named("alert"),
		})
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
		logger.Info("expiry watcher running",
			zap.String("schedule", cfg.Expiry.Schedule),
			zap.Int("warnDays", cfg.Expiry.WarnDays))
	}

	return dashboard.Start(ctx, dashboard.StartOpts{
		Engine:   eng,
		Exporter: exp,
		Renderer: renderer,
		Port:     port,
		Logger:   logger.Named("dashboard"),
		Out:      cmd.OutOrStdout(),
	})
}
