package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPinger is a function-backed Pinger for testing.
type MockPinger struct {
	PingFn func(ctx context.Context) (string, error)
}

func (m *MockPinger) Ping(ctx context.Context) (string, error) {
	return m.PingFn(ctx)
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(discardLogger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Live(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestHealthLLM(t *testing.T) {
	get := func(h *HealthHandler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health/llm", nil)
		rr := httptest.NewRecorder()
		h.LLM(rr, req)
		return rr
	}

	t.Run("no_pinger", func(t *testing.T) {
		h := NewHealthHandler(discardLogger(), nil)

		rr := get(h)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "not_supported", resp["status"])
	})

	t.Run("provider_reachable", func(t *testing.T) {
		h := NewHealthHandler(discardLogger(), &MockPinger{
			PingFn: func(ctx context.Context) (string, error) {
				return "google/gemini-2.0-flash-exp:free", nil
			},
		})

		rr := get(h)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, "google/gemini-2.0-flash-exp:free", resp["model_used"])
	})

	t.Run("provider_unreachable", func(t *testing.T) {
		h := NewHealthHandler(discardLogger(), &MockPinger{
			PingFn: func(ctx context.Context) (string, error) {
				return "", errors.New("connection refused")
			},
		})

		rr := get(h)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "unavailable", resp["status"])
	})
}
