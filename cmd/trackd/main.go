// Trackd is a personal activity-tracking daemon.
//
// It serves the activity ledger, goals, reminders, and to-do lists over
// HTTP, runs a background loop that dispatches due reminders and
// motivation messages to the desktop, and shells out to external
// report scripts.
//
// Usage:
//
//	# Start the daemon with defaults
//	trackd
//
//	# Point at an alternate config file
//	trackd -config /path/to/config.yaml
//
//	# Configure via environment
//	SERVER_PORT=9000 trackd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/goals"
	httpserver "github.com/fyrsmithlabs/trackd/internal/http"
	"github.com/fyrsmithlabs/trackd/internal/ledger"
	"github.com/fyrsmithlabs/trackd/internal/logging"
	"github.com/fyrsmithlabs/trackd/internal/notify"
	"github.com/fyrsmithlabs/trackd/internal/reminders"
	"github.com/fyrsmithlabs/trackd/internal/reports"
	"github.com/fyrsmithlabs/trackd/internal/scheduler"
	"github.com/fyrsmithlabs/trackd/internal/telemetry"
	"github.com/fyrsmithlabs/trackd/internal/todo"
	"github.com/fyrsmithlabs/trackd/internal/watcher"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/trackd/config.yaml)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  trackd           Start the trackd daemon\n")
			fmt.Fprintf(os.Stderr, "  trackd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}

	log.Println("Shutdown complete")
}

func printVersion() {
	fmt.Printf("trackd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires configuration, logging, telemetry, the stores and services,
// the scheduler, and the HTTP server, then blocks until ctx is
// cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.EnsureDataDir(cfg); err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := logging.New(cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("Starting trackd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Bool("telemetry", tel.IsEnabled()))

	// Stores and services
	ledgerStore := ledger.NewStore(cfg.Data.LedgerPath(), logger)
	goalSvc := goals.NewService(cfg.Data.GoalsPath(), logger)
	reminderSvc := reminders.NewService(cfg.Data.RemindersPath(), cfg.Data.MotivationPath(), logger)
	todoSvc := todo.NewService(cfg.Data.TodosPath(), logger)
	reportRunner := reports.NewExecRunner(cfg.Reports, logger)
	sink := notify.NewExecSink(cfg.Notify, logger)
	notifySettings := notify.NewSettingsStore(cfg.Data.NotificationsPath(), logger)

	// Watch for external edits to the ledger file
	w, err := watcher.New(cfg.Data, ledgerStore, logger)
	if err != nil {
		logger.Warn("failed to create data watcher", zap.Error(err))
	} else if err := w.Start(); err != nil {
		logger.Warn("failed to start data watcher", zap.Error(err))
	} else {
		defer w.Stop()
	}

	// Background dispatch loop
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(cfg.Scheduler, reminderSvc, notifySettings, sink, logger)
		go func() {
			if err := sched.Run(ctx); err != nil {
				logger.Error("scheduler exited", zap.Error(err))
			}
		}()
	} else {
		logger.Info("scheduler disabled by configuration")
	}

	// HTTP server
	srv, err := httpserver.NewServer(cfg.Server, httpserver.Deps{
		Ledger:         ledgerStore,
		Goals:          goalSvc,
		Reminders:      reminderSvc,
		Todos:          todoSvc,
		Reports:        reportRunner,
		Sink:           sink,
		NotifySettings: notifySettings,
	}, httpserver.NewHTTPMetrics(logger), logger)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("Daemon ready",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"))

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownTimeout := cfg.Server.ShutdownTimeout.Duration()
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown failed", zap.Error(err))
	}
	return nil
}
