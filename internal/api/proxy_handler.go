package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/savethebus/objection-api/internal/api/shared"
	"github.com/savethebus/objection-api/internal/config"
	"github.com/savethebus/objection-api/internal/platform/openrouter"
)

// sentinel terminating an SSE stream
const doneSentinel = "[DONE]"

// upstream error bodies are read at most this far
const maxErrorBodySize = 1 << 20

// ProxyHandler is the stateless proxy gateway. It validates
// OpenAI-compatible chat completion payloads, injects the server-held
// credential, forwards to the upstream completions endpoint, and relays the
// response, streaming or not. Each request constructs fresh headers; no
// state is shared between invocations.
type ProxyHandler struct {
	logger *slog.Logger
	cfg    *config.ProxyConfig

	// upstream bounds the whole non-streaming exchange; streamUpstream only
	// bounds the response headers, since the body is relayed incrementally
	// for as long as the upstream keeps producing events.
	upstream       *http.Client
	streamUpstream *http.Client
}

// NewProxyHandler creates a ProxyHandler with the given upstream timeout.
func NewProxyHandler(logger *slog.Logger, cfg *config.ProxyConfig, timeout time.Duration) *ProxyHandler {
	return &ProxyHandler{
		logger:   logger,
		cfg:      cfg,
		upstream: &http.Client{Timeout: timeout},
		streamUpstream: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: timeout},
		},
	}
}

// Preflight handles OPTIONS requests for CORS preflight.
func (h *ProxyHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusNoContent)
}

// Info handles GET /api/proxy with static service information. It succeeds
// regardless of credential state.
func (h *ProxyHandler) Info(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceInfo{
		Name:     "OpenRouter Proxy",
		Version:  "1.0.0",
		Status:   "operational",
		Provider: "openrouter",
		Endpoints: map[string]string{
			"chat": "/api/proxy/chat/completions",
		},
		Documentation: "https://openrouter.ai/docs",
	})
}

// Models handles GET /api/proxy/models with the model catalog, so clients
// can offer a model picker without hardcoding identifiers.
func (h *ProxyHandler) Models(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, openrouter.Models())
}

// ChatCompletionsMethodNotAllowed handles GET on the completions endpoint.
func (h *ProxyHandler) ChatCompletionsMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "POST, OPTIONS")
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Use POST method for chat completions")
}

// ChatCompletions handles POST /api/proxy/chat/completions.
func (h *ProxyHandler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	// Missing credential is a deployment misconfiguration, fatal for every
	// request until fixed.
	if h.cfg.OpenRouterAPIKey == "" {
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"OPENROUTER_API_KEY environment variable is not configured")
		return
	}

	var req ChatCompletionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if msg, ok := validateChatRequest(&req); !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msg)
		return
	}

	forward := applyDefaults(&req)

	body, err := json.Marshal(forward)
	if err != nil {
		h.respondProxyError(w, r, err)
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		h.respondProxyError(w, r, err)
		return
	}
	upstreamReq.Header = h.buildUpstreamHeaders(r.Header)

	client := h.upstream
	if forward.Stream {
		client = h.streamUpstream
	}

	resp, err := client.Do(upstreamReq)
	if err != nil {
		h.respondProxyError(w, r, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.relayUpstreamError(w, r, resp, forward.Model)
		return
	}

	if forward.Stream {
		h.relayStream(w, r, resp.Body, forward.Model)
		return
	}

	h.relayResponse(w, r, resp.Body, forward.Model)
}

// validateChatRequest checks the payload shape, returning a message that
// pinpoints the offending index and field on violation.
func validateChatRequest(req *ChatCompletionRequest) (string, bool) {
	if req.Model == "" {
		return "Model is required in request body", false
	}

	if len(req.Messages) == 0 {
		return "Messages array is required and must not be empty", false
	}

	for i, msg := range req.Messages {
		if msg.Role == "" || msg.Content == "" {
			return fmt.Sprintf("Message at index %d is missing required 'role' or 'content' field", i), false
		}

		switch msg.Role {
		case "system", "user", "assistant":
		default:
			return fmt.Sprintf("Message at index %d has invalid role: %s", i, msg.Role), false
		}
	}

	return "", true
}

// applyDefaults normalizes the payload forwarded upstream: temperature 0.7,
// max_tokens 2048, stream false when unset.
func applyDefaults(req *ChatCompletionRequest) *upstreamChatRequest {
	forward := &upstreamChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: 0.7,
		MaxTokens:   2048,
		TopP:        req.TopP,
		Stop:        req.Stop,
	}

	if req.Temperature != nil {
		forward.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		forward.MaxTokens = *req.MaxTokens
	}
	if req.Stream != nil {
		forward.Stream = *req.Stream
	}

	return forward
}

// buildUpstreamHeaders copies the incoming headers minus any client-supplied
// Authorization, then injects the server-held bearer credential and the
// OpenRouter analytics headers.
func (h *ProxyHandler) buildUpstreamHeaders(incoming http.Header) http.Header {
	headers := make(http.Header, len(incoming)+4)
	for key, values := range incoming {
		if strings.EqualFold(key, "Authorization") {
			continue
		}
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	headers.Set("Authorization", "Bearer "+h.cfg.OpenRouterAPIKey)
	headers.Set("HTTP-Referer", h.cfg.SiteURL)
	headers.Set("X-Title", h.cfg.AppName)
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", "application/json")
	}

	return headers
}

// respondProxyError reports an internal proxy fault (network failure,
// marshalling) in the OpenAI-compatible error envelope.
func (h *ProxyHandler) respondProxyError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "proxy request failed",
		"error", err,
		"trace_id", shared.GetTraceID(r.Context()))

	shared.RespondWithJSON(w, r, http.StatusInternalServerError, upstreamErrorBody{
		Error: upstreamErrorDetail{
			Message: fmt.Sprintf("Proxy error: %v", err),
			Type:    "proxy_error",
		},
	})
}

// relayUpstreamError forwards a non-2xx upstream response: the original
// status code with the upstream's JSON error body, or a generic envelope
// when that body is not parseable JSON.
func (h *ProxyHandler) relayUpstreamError(w http.ResponseWriter, r *http.Request, resp *http.Response, model string) {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if readErr != nil || !json.Valid(body) {
		body, _ = json.Marshal(upstreamErrorBody{
			Error: upstreamErrorDetail{
				Message: fmt.Sprintf("OpenRouter API error: %s", http.StatusText(resp.StatusCode)),
				Type:    "upstream_error",
			},
		})
	}

	h.logger.WarnContext(r.Context(), "relaying upstream error",
		"status", resp.StatusCode,
		"model", model)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Model-Used", model)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write upstream error body", "error", err)
	}
}

// relayResponse forwards a successful non-streaming upstream body verbatim.
func (h *ProxyHandler) relayResponse(w http.ResponseWriter, r *http.Request, body io.Reader, model string) {
	data, err := io.ReadAll(body)
	if err != nil {
		h.respondProxyError(w, r, err)
		return
	}

	if !json.Valid(data) {
		h.respondProxyError(w, r, fmt.Errorf("upstream returned invalid JSON"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Model-Used", model)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write upstream response body", "error", err)
	}
}

// relayStream forwards a streaming upstream body as Server-Sent Events.
// Events are emitted as soon as a complete line is assembled; well-formed
// data lines are re-serialized through parse-then-stringify, malformed ones
// are forwarded as-is but always with consistent "data: " framing. The
// stream closes when the [DONE] sentinel is seen or the upstream body ends.
// A client disconnect cancels the upstream read via the request context.
func (h *ProxyHandler) relayStream(w http.ResponseWriter, r *http.Request, body io.Reader, model string) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	header.Set("X-Model-Used", model)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxErrorBodySize)

	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())

		// Skip blank lines and SSE comments.
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			continue
		}

		data, ok := strings.CutPrefix(trimmed, "data: ")
		if !ok {
			h.writeEvent(w, flusher, trimmed)
			continue
		}

		if data == doneSentinel {
			h.writeEvent(w, flusher, "data: "+doneSentinel)
			return
		}

		h.writeEvent(w, flusher, "data: "+reserializeChunk(data))
	}

	if err := scanner.Err(); err != nil {
		// Headers are already sent; all that remains is to stop relaying.
		h.logger.WarnContext(r.Context(), "upstream stream ended with error", "error", err)
	}
}

func (h *ProxyHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, line string) {
	if _, err := fmt.Fprintf(w, "%s\n\n", line); err != nil {
		h.logger.Debug("failed to write SSE event", "error", err)
		return
	}
	if flusher != nil {
		flusher.Flush()
	}
}

// reserializeChunk round-trips a data payload through JSON parse and
// stringify. Malformed payloads are returned unchanged so they are still
// forwarded under the same framing.
func reserializeChunk(data string) string {
	var v interface{}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return data
	}

	out, err := json.Marshal(v)
	if err != nil {
		return data
	}

	return string(out)
}
