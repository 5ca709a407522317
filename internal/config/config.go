package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
	Proxy  ProxyConfig  `mapstructure:"proxy" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains the generation pipeline settings: which provider is
// active and the per-call defaults sent upstream.
type LLMConfig struct {
	// Provider selects the active provider client: "openrouter" routes
	// through the local proxy gateway, "gemini" calls the Gemini API
	// directly.
	Provider string `mapstructure:"provider" validate:"required,oneof=gemini openrouter"`

	// GeminiAPIKey is required only when Provider is "gemini".
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	GeminiModel     string `mapstructure:"gemini_model" validate:"required"`
	OpenRouterModel string `mapstructure:"openrouter_model" validate:"required"`

	Temperature     float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"gt=0"`
	TopP            float32 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	Streaming       bool    `mapstructure:"streaming"`

	// RequestTimeoutSeconds bounds each outbound generation call. A timeout
	// surfaces as a network error and triggers template fallback.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// ProxyBaseURL is where the OpenRouter provider client sends its
	// requests, normally this process's own proxy gateway.
	ProxyBaseURL string `mapstructure:"proxy_base_url" validate:"required,url"`
}

// RequestTimeout returns the outbound call timeout as a duration.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ProxyConfig contains the proxy gateway settings. OpenRouterAPIKey is
// deliberately not validated as required: its absence is a per-request 500
// on the completions endpoint, while the info endpoint keeps working.
type ProxyConfig struct {
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key"`
	UpstreamURL      string `mapstructure:"upstream_url" validate:"required,url"`
	SiteURL          string `mapstructure:"site_url"`
	AppName          string `mapstructure:"app_name"`
}
