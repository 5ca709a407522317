package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/savethebus/objection-api/internal/config"
	"github.com/savethebus/objection-api/internal/generation"
	"google.golang.org/genai"
)

// Generator implements generation.Generator and generation.StreamGenerator
// against the Gemini API.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	cfg    config.LLMConfig
}

// NewGenerator creates a Gemini-backed generator from the LLM configuration.
// The API key and model name must be set.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrConfiguration)
	}

	if cfg.GeminiModel == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrConfiguration, err)
	}

	return &Generator{
		logger: logger,
		client: client,
		cfg:    cfg,
	}, nil
}

// generateConfig builds the per-call Gemini configuration: the fixed system
// instruction and a response schema that forces a JSON object with required
// subject and body strings.
func (g *Generator) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: generation.SystemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subject": {Type: genai.TypeString},
				"body":    {Type: genai.TypeString},
			},
			Required: []string{"subject", "body"},
		},
		Temperature:     genai.Ptr(g.cfg.Temperature),
		TopP:            genai.Ptr(g.cfg.TopP),
		MaxOutputTokens: int32(g.cfg.MaxOutputTokens),
	}
}

// GenerateLetter makes a single non-streaming Gemini call and parses the
// structured JSON output. No retries; failures propagate to the caller.
func (g *Generator) GenerateLetter(ctx context.Context, prompt string) (*generation.LetterContent, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", generation.ErrValidation)
	}

	g.logger.DebugContext(ctx, "calling Gemini API",
		"model", g.cfg.GeminiModel,
		"prompt_length", len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.GeminiModel, genai.Text(prompt), g.generateConfig())
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrUpstream, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", generation.ErrParsing)
	}

	return generation.ExtractLetterJSON(text)
}

// GenerateLetterStream makes a single streaming Gemini call, forwarding text
// deltas as they arrive. The delta channel is closed when the stream ends;
// the error channel carries at most one terminal error.
func (g *Generator) GenerateLetterStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	deltas := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(deltas)
		defer close(errs)

		if prompt == "" {
			errs <- fmt.Errorf("%w: prompt cannot be empty", generation.ErrValidation)
			return
		}

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.cfg.GeminiModel, genai.Text(prompt), g.generateConfig()) {
			if err != nil {
				if ctx.Err() != nil {
					errs <- fmt.Errorf("%w: %v", generation.ErrNetwork, err)
				} else {
					errs <- fmt.Errorf("%w: %v", generation.ErrUpstream, err)
				}
				return
			}

			text := resp.Text()
			if text == "" {
				continue
			}

			select {
			case deltas <- text:
			case <-ctx.Done():
				errs <- fmt.Errorf("%w: %v", generation.ErrNetwork, ctx.Err())
				return
			}
		}
	}()

	return deltas, errs
}
