package task

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// logger for structured logging
	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if taskQueue == nil {
		panic("taskQueue cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "worker_pool"))

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
	}

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SetErrorHandler allows setting a custom error handler for task execution
// failures. It must be called before Run.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Run starts the workers and blocks until all of them exit. Workers stop
// once the queue is closed and drained, or as soon as ctx is cancelled.
// Task failures never stop the pool.
func (p *WorkerPool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range p.workerCount {
		g.Go(func() error {
			p.worker(ctx, i)
			return nil
		})
	}
	p.logger.Info("worker pool started", slog.Int("worker_count", p.workerCount))

	err := g.Wait()
	p.logger.Info("worker pool stopped")
	return err
}

// worker processes tasks from the queue
func (p *WorkerPool) worker(ctx context.Context, id int) {
	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return
		case task, ok := <-tasks:
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", slog.Int("worker_id", id))
				return
			}
			p.processTask(ctx, task, id)
		}
	}
}

// processTask handles execution of a single task. A panicking task is
// reported as a failure.
func (p *WorkerPool) processTask(ctx context.Context, task Task, workerID int) {
	log := p.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID),
	)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return task.Execute(ctx)
	}()

	if err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}

	log.Debug("task completed successfully")
}
