package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// serve runs the HTTP server and the event worker pool until ctx is
// cancelled, then shuts both down. Pending review events are drained within
// the shutdown timeout.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The pool outlives ctx so it can drain after the queue is closed.
	poolCtx, cancelPool := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelPool()
	poolDone := make(chan error, 1)
	go func() {
		poolDone <- app.workerPool.Run(poolCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.shutdownTimeout())
		defer cancel()

		var shutdownErr error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown failed: %w", err)
		}

		app.taskQueue.Close()
		select {
		case err := <-poolDone:
			shutdownErr = errors.Join(shutdownErr, err)
		case <-shutdownCtx.Done():
			app.logger.Warn("worker pool did not drain before shutdown timeout")
			cancelPool()
			shutdownErr = errors.Join(shutdownErr, <-poolDone)
		}

		app.logger.Info("server shutdown completed")
		return shutdownErr
	})

	return g.Wait()
}

func (app *application) shutdownTimeout() time.Duration {
	if app.config.Server.ShutdownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(app.config.Server.ShutdownSeconds) * time.Second
}
