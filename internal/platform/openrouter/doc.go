// Package openrouter implements the proxy-routed variant of the generation
// contract. It speaks the OpenAI-compatible chat completions API against the
// local proxy gateway, which injects the real credential and forwards to
// OpenRouter. Supports both non-streaming and SSE streaming responses.
package openrouter
