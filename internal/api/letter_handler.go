package api

import (
	"log/slog"
	"net/http"

	"github.com/savethebus/objection-api/internal/api/shared"
	"github.com/savethebus/objection-api/internal/domain"
	"github.com/savethebus/objection-api/internal/generation"
)

// LetterHandler serves the letter generation endpoint and the template
// catalog.
type LetterHandler struct {
	logger       *slog.Logger
	orchestrator *generation.Orchestrator
}

// NewLetterHandler creates a new LetterHandler.
func NewLetterHandler(logger *slog.Logger, orchestrator *generation.Orchestrator) *LetterHandler {
	return &LetterHandler{
		logger:       logger,
		orchestrator: orchestrator,
	}
}

// GenerateLetter handles POST /api/letters. Input validation failures are
// the only user-visible errors; once a request is valid the orchestrator
// guarantees a letter, falling back to templates on any generation failure.
func (h *LetterHandler) GenerateLetter(w http.ResponseWriter, r *http.Request) {
	var req GenerateLetterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	objection := req.toDomain()
	if err := objection.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result := h.orchestrator.GenerateObjectionEmail(r.Context(), objection)

	h.logger.InfoContext(r.Context(), "letter generated",
		"provider", result.Provider,
		"optimized", result.IsOptimized,
		"language", objection.Language,
		"mode", objection.Mode)

	shared.RespondWithJSON(w, r, http.StatusOK, letterToResponse(result))
}

// Campaign handles GET /api/campaign: the static submission details a
// client needs to deliver the finished letter.
func (h *LetterHandler) Campaign(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"recipient_email":   domain.RecipientEmail,
		"recipient_address": domain.RecipientAddress,
		"amendment":         domain.AmendmentDetails,
	})
}

// ListTemplates handles GET /api/letters/templates. The lang query selects
// the language, defaulting to English.
func (h *LetterHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	lang := domain.Language(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = domain.LanguageEnglish
	}

	shared.RespondWithJSON(w, r, http.StatusOK, templatesToResponse(lang))
}
