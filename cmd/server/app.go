package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-review/internal/config"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/queue"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/events"
	"github.com/phrazzld/scry-review/internal/platform/memory"
	"github.com/phrazzld/scry-review/internal/platform/postgres"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/phrazzld/scry-review/internal/task"
)

// application holds the wired dependencies of the server.
type application struct {
	config        *config.Config
	logger        *slog.Logger
	db            *sql.DB // nil when cards are kept in memory
	cardStore     store.CardStore
	reviewService card_review.CardReviewService
	taskQueue     *task.TaskQueue
	workerPool    *task.WorkerPool
}

// newApplication wires the application from cfg. With no database URL the
// cards live in memory and are lost on exit.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	scheduler, err := newScheduler(cfg.Scheduler)
	if err != nil {
		return nil, err
	}

	if err := app.setupCardStore(ctx); err != nil {
		return nil, err
	}

	// Review events are delivered off the request path.
	app.taskQueue = task.NewTaskQueue(cfg.Events.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Events.WorkerCount,
	}, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewDeliveryEventHandler(app.taskQueue, events.NewLogHandler(logger), logger))

	app.reviewService = card_review.NewCardReviewService(
		app.cardStore,
		scheduler,
		emitter,
		domain.SystemClock(),
		queue.NewSeededSource(time.Now().UnixNano()),
		reviewConfig(cfg),
		logger,
	)

	return app, nil
}

// setupCardStore opens and migrates the database when one is configured.
func (app *application) setupCardStore(ctx context.Context) error {
	if app.config.Database.URL == "" {
		app.logger.Warn("no database configured, cards are kept in memory")
		app.cardStore = memory.NewCardStore(app.logger)
		return nil
	}

	db, err := postgres.Open(ctx, app.config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgres.Migrate(ctx, db, app.logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	app.db = db
	app.cardStore = postgres.NewPostgresCardStore(db, app.logger)
	app.logger.Info("database connection established")
	return nil
}

func newScheduler(cfg config.SchedulerConfig) (srs.Service, error) {
	kind, err := srs.ParsePolicyKind(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to select scheduling policy: %w", err)
	}

	params := srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:       cfg.MinEaseFactor,
		MaximumIntervalDays: cfg.MaxIntervalDays,
		AgainRetry:          time.Duration(cfg.AgainRetryMinutes) * time.Minute,
	})

	scheduler, err := srs.NewService(kind, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return scheduler, nil
}

func reviewConfig(cfg *config.Config) card_review.Config {
	return card_review.Config{
		RoundSize: cfg.Round.TargetSize,
		TierRatio: queue.TierRatio{
			domain.TierNeedsReinforcement: cfg.Round.NeedsReinforcement,
			domain.TierSomewhatFamiliar:   cfg.Round.SomewhatFamiliar,
			domain.TierWellKnown:          cfg.Round.WellKnown,
		},
		DueLimit:    cfg.DueQueue.Limit,
		SessionTTL:  time.Duration(cfg.Sessions.TTLMinutes) * time.Minute,
		MaxSessions: cfg.Sessions.MaxSessions,
	}
}

// cleanup releases resources held by the application. It is safe to call
// more than once.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}
