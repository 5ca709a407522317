package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/savethebus/objection-api/internal/domain"
	"github.com/savethebus/objection-api/internal/letter"
)

// Orchestrator drives the generation pipeline: it invokes the configured
// provider with the built prompt, post-processes the result, and on any
// recoverable failure falls back to the static templates. Its contract is
// that it always returns a usable letter.
type Orchestrator struct {
	logger         *slog.Logger
	provider       Generator
	streamProvider StreamGenerator
	providerName   domain.Provider
	streaming      bool
}

// NewOrchestrator creates an Orchestrator around the given provider. When
// streaming is requested the provider must also implement StreamGenerator.
func NewOrchestrator(
	logger *slog.Logger,
	provider Generator,
	providerName domain.Provider,
	streaming bool,
) (*Orchestrator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrConfiguration)
	}

	o := &Orchestrator{
		logger:       logger,
		provider:     provider,
		providerName: providerName,
		streaming:    streaming,
	}

	if streaming {
		sp, ok := provider.(StreamGenerator)
		if !ok {
			return nil, fmt.Errorf("%w: provider %s does not support streaming", ErrConfiguration, providerName)
		}
		o.streamProvider = sp
	}

	return o, nil
}

// GenerateObjectionEmail produces the final letter for a validated request.
// It never fails: network, upstream, and parsing errors are logged with
// their taxonomy class and converted into a deterministic template fallback.
// Input validation is the caller's responsibility and happens before any
// network call.
func (o *Orchestrator) GenerateObjectionEmail(ctx context.Context, req *domain.ObjectionRequest) *domain.GeneratedLetter {
	prompt := BuildPrompt(req)

	content, err := o.invoke(ctx, prompt)
	if err != nil {
		o.logger.WarnContext(ctx, "AI generation failed, falling back to templates",
			"provider", o.providerName,
			"error_class", Classify(err),
			"error", err)
		return o.fallback(req)
	}

	body := letter.ReplacePlaceholders(content.Body, req.Name, req.Location)

	return &domain.GeneratedLetter{
		Subject:     content.Subject,
		Body:        body,
		IsOptimized: req.Mode == domain.ModeManual,
		Provider:    o.providerName,
	}
}

// invoke makes a single provider call, streaming or not. No retries.
func (o *Orchestrator) invoke(ctx context.Context, prompt string) (*LetterContent, error) {
	if !o.streaming {
		return o.provider.GenerateLetter(ctx, prompt)
	}

	deltas, errs := o.streamProvider.GenerateLetterStream(ctx, prompt)

	var sb strings.Builder
	for delta := range deltas {
		sb.WriteString(delta)
	}

	if err := <-errs; err != nil {
		return nil, err
	}

	return ExtractLetterJSON(sb.String())
}

// fallback builds a letter from the general template for the request's
// language. In manual mode the user's own text replaces the template body,
// wrapped in a fixed salutation and signature.
func (o *Orchestrator) fallback(req *domain.ObjectionRequest) *domain.GeneratedLetter {
	tpl := letter.Lookup(req.Language, letter.TopicGeneral)

	body := letter.ReplacePlaceholders(tpl.Body, req.Name, req.Location)
	if req.Mode == domain.ModeManual && strings.TrimSpace(req.CustomText) != "" {
		body = letter.ManualBody(req.CustomText, req.Name, req.Location)
	}

	return &domain.GeneratedLetter{
		Subject:     tpl.Subject,
		Body:        body,
		IsOptimized: false,
		Provider:    domain.ProviderFallback,
	}
}
