package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/savethebus/objection-api/internal/config"
	"github.com/savethebus/objection-api/internal/generation"
)

// sentinel terminating an SSE stream
const doneSentinel = "[DONE]"

// Client implements generation.Generator and generation.StreamGenerator by
// POSTing OpenAI-compatible payloads to the proxy gateway's
// /chat/completions endpoint.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	cfg        config.LLMConfig
}

// NewClient creates a proxy-routed provider client from the LLM
// configuration. The HTTP client carries the configured request timeout;
// a timeout surfaces as a network error.
func NewClient(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.ProxyBaseURL == "" {
		return nil, fmt.Errorf("%w: proxy base URL cannot be empty", generation.ErrConfiguration)
	}

	if cfg.OpenRouterModel == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", generation.ErrConfiguration)
	}

	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    strings.TrimRight(cfg.ProxyBaseURL, "/"),
		cfg:        cfg,
	}, nil
}

// messages builds the fixed two-message sequence: the system instruction
// followed by the user prompt. This service never multi-turns.
func messages(prompt string) []Message {
	return []Message{
		{Role: "system", Content: generation.SystemInstruction},
		{Role: "user", Content: prompt},
	}
}

// chatCompletion issues one POST to the gateway. The caller owns the
// response body.
func (c *Client) chatCompletion(ctx context.Context, msgs []Message, maxTokens int, stream bool) (*http.Response, error) {
	payload := chatRequest{
		Model:       c.cfg.OpenRouterModel,
		Messages:    msgs,
		Temperature: c.cfg.Temperature,
		MaxTokens:   maxTokens,
		TopP:        c.cfg.TopP,
		Stream:      stream,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrNetwork, err)
	}

	return resp, nil
}

// upstreamError drains a non-2xx response into an upstream error, using the
// error body's message when it parses.
func upstreamError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	var apiErr errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%w: %s (status %d)", generation.ErrUpstream, apiErr.Error.Message, resp.StatusCode)
	}

	return fmt.Errorf("%w: status %d", generation.ErrUpstream, resp.StatusCode)
}

// GenerateLetter makes a single non-streaming chat completion call and
// parses the structured JSON output from the first choice's content.
func (c *Client) GenerateLetter(ctx context.Context, prompt string) (*generation.LetterContent, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", generation.ErrValidation)
	}

	c.logger.DebugContext(ctx, "calling chat completions via proxy",
		"model", c.cfg.OpenRouterModel,
		"prompt_length", len(prompt))

	resp, err := c.chatCompletion(ctx, messages(prompt), c.cfg.MaxOutputTokens, false)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp)
	}

	defer func() { _ = resp.Body.Close() }()

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrParsing, err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: no content in response", generation.ErrParsing)
	}

	return generation.ExtractLetterJSON(chat.Choices[0].Message.Content)
}

// GenerateLetterStream makes a single streaming chat completion call and
// forwards content deltas as they arrive. The delta channel is closed when
// the [DONE] sentinel is seen or the body ends; the error channel carries at
// most one terminal error.
func (c *Client) GenerateLetterStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	deltas := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(deltas)
		defer close(errs)

		if prompt == "" {
			errs <- fmt.Errorf("%w: prompt cannot be empty", generation.ErrValidation)
			return
		}

		resp, err := c.chatCompletion(ctx, messages(prompt), c.cfg.MaxOutputTokens, true)
		if err != nil {
			errs <- err
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errs <- upstreamError(resp)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			data, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "data: ")
			if !ok {
				continue
			}

			if data == doneSentinel {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// Malformed individual chunks are skipped, not fatal.
				continue
			}

			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case deltas <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				errs <- fmt.Errorf("%w: %v", generation.ErrNetwork, ctx.Err())
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("%w: %v", generation.ErrNetwork, err)
		}
	}()

	return deltas, errs
}

// Ping sends a minimal completion request to verify connectivity through the
// proxy. Returns the model identifier reported by the upstream.
func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.chatCompletion(ctx, []Message{{Role: "user", Content: `Respond with "OK"`}}, 10, false)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamError(resp)
	}

	defer func() { _ = resp.Body.Close() }()

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrParsing, err)
	}

	return chat.Model, nil
}
