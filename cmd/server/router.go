package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-review/internal/api"
	apiMiddleware "github.com/phrazzld/scry-review/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	sessionHandler := api.NewSessionHandler(app.reviewService, app.logger)
	cardHandler := api.NewCardHandler(app.reviewService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Study sessions
		r.Post("/sessions", sessionHandler.StartSession)
		r.Get("/sessions/{id}", sessionHandler.GetSession)
		r.Delete("/sessions/{id}", sessionHandler.EndSession)
		r.Get("/sessions/{id}/next", sessionHandler.NextCard)
		r.Post("/sessions/{id}/reset", sessionHandler.ResetSession)
		r.Post("/sessions/{id}/cards/{cardID}/answer", sessionHandler.SubmitAnswer)

		// Cards
		r.Post("/cards", cardHandler.CreateCards)
		r.Post("/cards/{id}/postpone", cardHandler.PostponeCard)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
