package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/scholar-api/internal/cache"
	"github.com/phrazzld/scholar-api/internal/config"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/platform/gemini"
	"github.com/phrazzld/scholar-api/internal/platform/postgres"
	"github.com/phrazzld/scholar-api/internal/platform/webpage"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/task"
)

// application holds the wired dependency graph of the server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	runner      *task.Runner
	jobService  service.JobService
	resultCache cache.Cache
}

// newApplication wires every component: storage, discovery, background
// execution, events and the service layer.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jobStore := postgres.NewPostgresJobStore(db, logger)
	registry := task.NewCancelRegistry()
	reporter := task.NewStatusReporter(jobStore, logger)

	ctx := context.Background()
	discoverer, err := gemini.NewGeminiDiscoverer(ctx, logger, cfg.LLM, webpage.NewHTTPFetcher())
	if err != nil {
		return nil, fmt.Errorf("failed to create discoverer: %w", err)
	}

	runnerConfig := task.RunnerConfig{
		WorkerCount:           cfg.Task.WorkerCount,
		QueueSize:             cfg.Task.QueueSize,
		StuckJobAge:           time.Duration(cfg.Task.StuckJobAgeMinutes) * time.Minute,
		StuckJobCheckInterval: time.Duration(cfg.Task.StuckJobCheckIntervalMins) * time.Minute,
	}
	runner := task.NewRunner(jobStore, runnerConfig, logger)

	factory := task.NewDiscoveryTaskFactory(jobStore, discoverer, reporter, registry, logger)
	handler := task.NewTaskFactoryEventHandler(factory, runner, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(handler)

	jobService, err := service.NewJobService(jobStore, emitter, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create job service: %w", err)
	}

	resultCache, err := buildResultCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		runner:      runner,
		jobService:  jobService,
		resultCache: resultCache,
	}, nil
}

func buildResultCache(cfg *config.Config, logger *slog.Logger) (cache.Cache, error) {
	if cfg.Cache.RedisURL == "" {
		logger.Info("result caching disabled")
		return cache.NoopCache{}, nil
	}

	redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("result caching enabled")
	return redisCache, nil
}

// run starts the worker pool and the HTTP server, then blocks until a
// shutdown signal arrives and everything has drained.
func (app *application) run() error {
	app.runner.Start()
	defer app.runner.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.Int("port", app.config.Server.Port))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		app.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}
