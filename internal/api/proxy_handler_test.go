package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/savethebus/objection-api/internal/api/shared"
	"github.com/savethebus/objection-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProxyHandler(upstreamURL, apiKey string) *ProxyHandler {
	return NewProxyHandler(discardLogger(), &config.ProxyConfig{
		OpenRouterAPIKey: apiKey,
		UpstreamURL:      upstreamURL,
		SiteURL:          "https://savethebus.vercel.app",
		AppName:          "SaveTheBus",
	}, 5*time.Second)
}

func chatPayload() map[string]interface{} {
	return map[string]interface{}{
		"model": "google/gemini-2.0-flash-exp:free",
		"messages": []map[string]string{
			{"role": "user", "content": "Hello"},
		},
	}
}

func postCompletions(t *testing.T, h *ProxyHandler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ChatCompletions(rr, req)
	return rr
}

func TestProxyInfo(t *testing.T) {
	// The info endpoint must work even with no credential configured.
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "")

	req := httptest.NewRequest(http.MethodGet, "/api/proxy", nil)
	rr := httptest.NewRecorder()
	h.Info(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var info ServiceInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "OpenRouter Proxy", info.Name)
	assert.Equal(t, "operational", info.Status)
	assert.Equal(t, "/api/proxy/chat/completions", info.Endpoints["chat"])
}

func TestProxyModels(t *testing.T) {
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "")

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/models", nil)
	rr := httptest.NewRecorder()
	h.Models(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var models []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &models))
	assert.NotEmpty(t, models)
}

func TestProxyPreflight(t *testing.T) {
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "key")

	req := httptest.NewRequest(http.MethodOptions, "/api/proxy/chat/completions", nil)
	rr := httptest.NewRecorder()
	h.Preflight(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "86400", rr.Header().Get("Access-Control-Max-Age"))
}

func TestChatCompletionsMethodNotAllowed(t *testing.T) {
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "key")

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/chat/completions", nil)
	rr := httptest.NewRecorder()
	h.ChatCompletionsMethodNotAllowed(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))
}

func TestChatCompletions_MissingCredential(t *testing.T) {
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "")

	rr := postCompletions(t, h, chatPayload())

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OPENROUTER_API_KEY environment variable is not configured", resp.Error)
}

func TestChatCompletions_InvalidJSON(t *testing.T) {
	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "key")

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/chat/completions",
		strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ChatCompletions(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid JSON in request body", resp.Error)
}

func TestChatCompletions_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		wantMsg string
	}{
		{
			name:    "missing_model",
			mutate:  func(p map[string]interface{}) { delete(p, "model") },
			wantMsg: "Model is required in request body",
		},
		{
			name:    "empty_messages",
			mutate:  func(p map[string]interface{}) { p["messages"] = []map[string]string{} },
			wantMsg: "Messages array is required and must not be empty",
		},
		{
			name: "message_missing_content",
			mutate: func(p map[string]interface{}) {
				p["messages"] = []map[string]string{{"role": "user"}}
			},
			wantMsg: "Message at index 0 is missing required 'role' or 'content' field",
		},
		{
			name: "message_missing_role_at_index_1",
			mutate: func(p map[string]interface{}) {
				p["messages"] = []map[string]string{
					{"role": "user", "content": "hi"},
					{"content": "orphan"},
				}
			},
			wantMsg: "Message at index 1 is missing required 'role' or 'content' field",
		},
		{
			name: "invalid_role",
			mutate: func(p map[string]interface{}) {
				p["messages"] = []map[string]string{{"role": "wizard", "content": "hi"}}
			},
			wantMsg: "Message at index 0 has invalid role: wizard",
		},
	}

	h := newTestProxyHandler("https://openrouter.ai/api/v1/chat/completions", "key")

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := chatPayload()
			tc.mutate(payload)

			rr := postCompletions(t, h, payload)

			require.Equal(t, http.StatusBadRequest, rr.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp.Error)
		})
	}
}

func TestChatCompletions_ForwardsWithDefaultsAndCredential(t *testing.T) {
	var (
		gotAuth    string
		gotReferer string
		gotTitle   string
		gotBody    map[string]interface{}
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "secret-key")

	payload := chatPayload()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	// A client-supplied credential must never reach the upstream.
	req.Header.Set("Authorization", "Bearer client-leaked-key")
	rr := httptest.NewRecorder()
	h.ChatCompletions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "https://savethebus.vercel.app", gotReferer)
	assert.Equal(t, "SaveTheBus", gotTitle)

	assert.Equal(t, 0.7, gotBody["temperature"])
	assert.Equal(t, float64(2048), gotBody["max_tokens"])
	assert.Equal(t, false, gotBody["stream"])
}

func TestChatCompletions_ExplicitParametersForwarded(t *testing.T) {
	var gotBody map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"gen-1"}`)
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")

	payload := chatPayload()
	payload["temperature"] = 0.2
	payload["max_tokens"] = 512

	rr := postCompletions(t, h, payload)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0.2, gotBody["temperature"])
	assert.Equal(t, float64(512), gotBody["max_tokens"])
}

func TestChatCompletions_RelaysSuccessVerbatim(t *testing.T) {
	upstreamBody := `{"id":"gen-42","object":"chat.completion","choices":[{"message":{"role":"assistant","content":"done"}}]}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, upstreamBody)
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")
	rr := postCompletions(t, h, chatPayload())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, upstreamBody, rr.Body.String())
	assert.Equal(t, "google/gemini-2.0-flash-exp:free", rr.Header().Get("X-Model-Used"))
}

func TestChatCompletions_RelaysUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit exceeded","type":"rate_limit"}}`)
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")
	rr := postCompletions(t, h, chatPayload())

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "google/gemini-2.0-flash-exp:free", rr.Header().Get("X-Model-Used"))

	var resp upstreamErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Rate limit exceeded", resp.Error.Message)
}

func TestChatCompletions_SynthesizesEnvelopeForNonJSONError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>Bad Gateway</html>")
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")
	rr := postCompletions(t, h, chatPayload())

	require.Equal(t, http.StatusBadGateway, rr.Code)

	var resp upstreamErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "upstream_error", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "OpenRouter API error")
}

func TestChatCompletions_NetworkFailure(t *testing.T) {
	h := newTestProxyHandler("http://127.0.0.1:1/v1/chat/completions", "key")

	rr := postCompletions(t, h, chatPayload())

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp upstreamErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "proxy_error", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "Proxy error:")
}

// sseEvents splits a relayed SSE body into its non-empty event lines.
func sseEvents(body string) []string {
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			events = append(events, line)
		}
	}
	return events
}

func TestChatCompletions_RelaysStream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"hel\"}}]}\n\n")
		fmt.Fprint(w, ": upstream keep-alive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")

	payload := chatPayload()
	payload["stream"] = true

	rr := postCompletions(t, h, payload)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "google/gemini-2.0-flash-exp:free", rr.Header().Get("X-Model-Used"))

	events := sseEvents(rr.Body.String())
	require.Len(t, events, 3, "comment line must be dropped")
	assert.Equal(t, "data: [DONE]", events[len(events)-1])

	// Concatenating the relayed deltas must reconstruct the full text.
	var text string
	for _, ev := range events[:len(events)-1] {
		data, ok := strings.CutPrefix(ev, "data: ")
		require.True(t, ok, "every event must carry data framing: %q", ev)

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		require.NoError(t, json.Unmarshal([]byte(data), &chunk))
		text += chunk.Choices[0].Delta.Content
	}
	assert.Equal(t, "hello", text)
}

// The relay must reassemble events identically no matter how the upstream
// body is fragmented on the wire, including splits in the middle of a line.
func TestChatCompletions_StreamRelayHandlesArbitrarySplits(t *testing.T) {
	sseBody := "data: {\"choices\":[{\"delta\":{\"content\":\"hel\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
		"data: [DONE]\n\n"

	relay := func(chunkSize int) []string {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			for i := 0; i < len(sseBody); i += chunkSize {
				end := i + chunkSize
				if end > len(sseBody) {
					end = len(sseBody)
				}
				fmt.Fprint(w, sseBody[i:end])
				flusher.Flush()
			}
		}))
		defer upstream.Close()

		h := newTestProxyHandler(upstream.URL, "key")

		payload := chatPayload()
		payload["stream"] = true
		rr := postCompletions(t, h, payload)
		require.Equal(t, http.StatusOK, rr.Code)
		return sseEvents(rr.Body.String())
	}

	whole := relay(len(sseBody))
	fragmented := relay(7)

	assert.Equal(t, whole, fragmented)
}

func TestChatCompletions_StreamMalformedChunkKeepsFraming(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {broken json\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")

	payload := chatPayload()
	payload["stream"] = true

	rr := postCompletions(t, h, payload)

	require.Equal(t, http.StatusOK, rr.Code)

	events := sseEvents(rr.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, "data: {broken json", events[0])
	assert.Equal(t, "data: [DONE]", events[1])
}

func TestChatCompletions_StreamStopsAfterDone(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n")
	}))
	defer upstream.Close()

	h := newTestProxyHandler(upstream.URL, "key")

	payload := chatPayload()
	payload["stream"] = true

	rr := postCompletions(t, h, payload)

	events := sseEvents(rr.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "data: [DONE]", events[0])
}
