// Package api contains the HTTP handlers: the stateless proxy gateway that
// forwards chat completion requests to OpenRouter, and the letters endpoint
// that runs the generation pipeline. Handlers use the shared response
// helpers and keep no per-request state.
package api
