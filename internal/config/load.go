package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when the environment does not set a key.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultProvider        = "openrouter"
	DefaultGeminiModel     = "gemini-3-flash-preview"
	DefaultOpenRouterModel = "google/gemini-2.0-flash-exp:free"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 2048
	DefaultTopP            = 1.0
	DefaultTimeoutSeconds  = 30
	DefaultProxyBaseURL    = "http://localhost:8080/api/proxy"
	DefaultUpstreamURL     = "https://openrouter.ai/api/v1/chat/completions"
	DefaultSiteURL         = "https://savethebus.vercel.app"
	DefaultAppName         = "SaveTheBus"
)

// Load reads configuration from environment variables with the SAVEBUS_
// prefix (nested keys joined by underscores, e.g. SAVEBUS_SERVER_PORT for
// server.port), applies defaults, and validates the result. Environment
// variables take precedence over defaults. Returns a populated Config or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults double as key registrations so AutomaticEnv can see them.
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("llm.provider", DefaultProvider)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", DefaultGeminiModel)
	v.SetDefault("llm.openrouter_model", DefaultOpenRouterModel)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_output_tokens", DefaultMaxOutputTokens)
	v.SetDefault("llm.top_p", DefaultTopP)
	v.SetDefault("llm.streaming", false)
	v.SetDefault("llm.request_timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("llm.proxy_base_url", DefaultProxyBaseURL)
	v.SetDefault("proxy.openrouter_api_key", "")
	v.SetDefault("proxy.upstream_url", DefaultUpstreamURL)
	v.SetDefault("proxy.site_url", DefaultSiteURL)
	v.SetDefault("proxy.app_name", DefaultAppName)

	v.SetEnvPrefix("SAVEBUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.LLM.Provider == "gemini" && cfg.LLM.GeminiAPIKey == "" {
		return nil, fmt.Errorf("invalid configuration: llm.gemini_api_key is required when llm.provider is gemini")
	}

	return &cfg, nil
}
