package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/ratelimit"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// cacheClient is the subset of the Redis cache the application uses.
type cacheClient interface {
	service.Pinger
	apiMiddleware.IdempotencyStore
	Close() error
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory store is selected.
	db    *sql.DB
	cache cacheClient

	taskStore     store.TaskStore
	taskService   service.TaskService
	healthService service.HealthService
	limiter       *ratelimit.Limiter
}

// newApplication connects to the configured backends and wires the services.
// The storage backend is chosen once here: PostgreSQL when database.enabled is
// set, the in-memory store otherwise.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	var (
		db        *sql.DB
		taskStore store.TaskStore
		err       error
	)

	if cfg.Database.Enabled {
		db, err = setupAppDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		taskStore = postgres.NewPostgresTaskStore(db, logger)
		logger.Info("using PostgreSQL task store")
	} else {
		taskStore = memory.NewTaskStore(logger)
		logger.Info("using in-memory task store")
	}

	redisCache, err := setupAppCache(cfg.Cache, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	app, err := assembleApplication(cfg, logger, taskStore, redisCache)
	if err != nil {
		_ = redisCache.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	app.db = db

	return app, nil
}

// assembleApplication builds the services and the limiter on top of
// already-connected backends.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	taskStore store.TaskStore,
	cache cacheClient,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		cache:     cache,
		taskStore: taskStore,
	}

	var err error
	app.taskService, err = service.NewTaskService(taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.healthService, err = service.NewHealthService(taskStore, cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create health service: %w", err)
	}

	app.limiter = ratelimit.New(cfg.RateLimit.Rate, cfg.RateLimit.Interval)
	logger.Info("rate limiter started",
		"rate", app.limiter.Rate(),
		"interval", app.limiter.Interval().String())

	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.limiter != nil {
		app.limiter.Stop()
	}

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
