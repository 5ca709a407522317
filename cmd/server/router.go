package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/savethebus/objection-api/internal/api"
	apiMiddleware "github.com/savethebus/objection-api/internal/api/middleware"
	"github.com/savethebus/objection-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware, mirroring the routing table of the original edge proxy.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS)

	proxyHandler := api.NewProxyHandler(app.logger, &app.config.Proxy, app.config.LLM.RequestTimeout())
	letterHandler := api.NewLetterHandler(app.logger, app.orchestrator)
	healthHandler := api.NewHealthHandler(app.logger, app.pinger)

	// CORS preflight for every path.
	r.Options("/*", proxyHandler.Preflight)

	r.Route("/api", func(r chi.Router) {
		r.Get("/proxy", proxyHandler.Info)
		r.Get("/proxy/models", proxyHandler.Models)
		r.Get("/proxy/chat/completions", proxyHandler.ChatCompletionsMethodNotAllowed)
		r.Post("/proxy/chat/completions", proxyHandler.ChatCompletions)

		r.Post("/letters", letterHandler.GenerateLetter)
		r.Get("/letters/templates", letterHandler.ListTemplates)
		r.Get("/campaign", letterHandler.Campaign)
	})

	r.Get("/health", healthHandler.Live)
	r.Get("/health/llm", healthHandler.LLM)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
