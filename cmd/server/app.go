package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/savethebus/objection-api/internal/api"
	"github.com/savethebus/objection-api/internal/config"
	"github.com/savethebus/objection-api/internal/domain"
	"github.com/savethebus/objection-api/internal/generation"
	"github.com/savethebus/objection-api/internal/platform/gemini"
	"github.com/savethebus/objection-api/internal/platform/openrouter"
)

// application holds the wired dependencies of the server.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	orchestrator *generation.Orchestrator
	pinger       api.Pinger
}

// newApplication selects the configured provider client, builds the
// orchestrator around it, and assembles the application. Configuration is
// immutable from here on; components receive it by reference at
// construction and never consult the environment.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var (
		provider     generation.Generator
		providerName domain.Provider
	)

	switch cfg.LLM.Provider {
	case "gemini":
		g, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		provider = g
		providerName = domain.ProviderGemini

	case "openrouter":
		client, err := openrouter.NewClient(logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
		}
		provider = client
		providerName = domain.ProviderOpenRouter
		app.pinger = client

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLM.Provider)
	}

	orchestrator, err := generation.NewOrchestrator(logger, provider, providerName, cfg.LLM.Streaming)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	app.orchestrator = orchestrator

	return app, nil
}
