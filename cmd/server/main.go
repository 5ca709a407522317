// Package main implements the entry point for the Save The Bus objection
// API server: a proxy gateway for OpenRouter chat completions plus the
// letter generation pipeline with template fallback.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/savethebus/objection-api/internal/config"
	"github.com/savethebus/objection-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application components.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"provider", cfg.LLM.Provider,
		"streaming", cfg.LLM.Streaming)
	log.Debug("Proxy configuration",
		"credential_present", cfg.Proxy.OpenRouterAPIKey != "",
		"upstream_url", cfg.Proxy.UpstreamURL)

	return newApplication(ctx, cfg, log)
}
