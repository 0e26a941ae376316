package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jobping-client-go/internal/api"
	"jobping-client-go/internal/app"
	"jobping-client-go/internal/config"
	"jobping-client-go/internal/session"
	"jobping-client-go/pkg/httpclient"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := setupLogging(cfg.Monitoring.LogFile, cfg.Monitoring.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	tokenPath, err := cfg.TokenFile()
	if err != nil {
		logger.WithError(err).Fatal("failed to resolve token file")
	}

	store := session.NewStore(tokenPath, logger)
	client := api.NewClient(cfg.API.BaseURL, httpclient.NewHttpClient(cfg.API.RequestTimeout), store)
	coordinator := app.NewCoordinator(client, store, cfg.Reconcile.ReloadDelay, cfg.Reconcile.JobLimit, logger)

	logger.WithFields(logrus.Fields{
		"backend":  cfg.API.BaseURL,
		"interval": cfg.Reconcile.WatchInterval,
		"fetch":    cfg.Reconcile.FetchOnWatch,
	}).Info("starting JobPing watcher")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go runWatchLoop(ctx, coordinator, cfg, logger, done)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("shutting down")
	cancel()
	<-done
}

// runWatchLoop reloads the job list on every tick and reports postings not
// seen before. With fetch_on_watch enabled it also triggers a backend fetch
// and lets the scheduled reconciliation pick up the results.
func runWatchLoop(ctx context.Context, coordinator *app.Coordinator, cfg *config.Config, logger *logrus.Logger, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(cfg.Reconcile.WatchInterval)
	defer ticker.Stop()

	seen := make(map[uuid.UUID]bool)
	var pending *app.Reload

	runOnce(ctx, coordinator, cfg, logger, seen, &pending)

	for {
		select {
		case <-ctx.Done():
			if pending != nil && pending.Cancel() {
				logger.Debug("cancelled pending reload")
			}
			return
		case <-ticker.C:
			runOnce(ctx, coordinator, cfg, logger, seen, &pending)
		}
	}
}

func runOnce(ctx context.Context, coordinator *app.Coordinator, cfg *config.Config, logger *logrus.Logger, seen map[uuid.UUID]bool, pending **app.Reload) {
	if cfg.Reconcile.FetchOnWatch {
		reload, err := coordinator.FetchLatest(ctx, api.FetchParams{})
		if err == nil {
			*pending = reload
		}
	} else if err := coordinator.LoadJobs(ctx); err != nil {
		return
	}

	state := coordinator.State()
	fresh := 0
	for _, job := range state.Jobs {
		if !seen[job.ID] {
			seen[job.ID] = true
			fresh++
			logger.WithFields(logrus.Fields{
				"title":   job.Title,
				"company": job.Company,
			}).Info("new job")
		}
	}
	logger.WithFields(logrus.Fields{
		"jobs": len(state.Jobs),
		"new":  fresh,
	}).Debug("watch tick complete")
}

// setupLogging builds the logger, optionally teeing to a log file.
func setupLogging(logFilePath, logLevel string) (*logrus.Logger, *os.File, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if logFilePath == "" {
		return logger, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(file)

	return logger, file, nil
}
