package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/ratelimit"
)

// setupRouter creates and configures the application router with all routes and middleware.
// Every request, including unmatched ones, passes through the rate limiter.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.MetricsMiddleware)
	r.Use(ratelimit.Middleware(app.limiter, app.logger))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.NotFound)

	healthHandler := api.NewHealthHandler(app.healthService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	idempotency := apiMiddleware.Idempotency(app.cache, app.config.Cache.IdempotencyTTL, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", healthHandler.Routes)
		taskHandler.Routes(r, idempotency)
	})

	r.Handle("/metrics", apiMiddleware.MetricsHandler())

	return r
}
