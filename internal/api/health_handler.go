package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/savethebus/objection-api/internal/api/shared"
)

// Pinger verifies connectivity to the active LLM provider with a minimal
// completion request.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// HealthHandler serves liveness and provider connectivity checks.
type HealthHandler struct {
	logger *slog.Logger
	pinger Pinger
}

// NewHealthHandler creates a HealthHandler. pinger may be nil when the
// active provider has no connectivity self-test.
func NewHealthHandler(logger *slog.Logger, pinger Pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		pinger: pinger,
	}
}

// Live handles GET /health.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", "error", err)
	}
}

// LLM handles GET /health/llm: a round trip through the provider.
func (h *HealthHandler) LLM(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"status": "not_supported",
		})
		return
	}

	model, err := h.pinger.Ping(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "LLM connectivity check failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":     "ok",
		"model_used": model,
	})
}
