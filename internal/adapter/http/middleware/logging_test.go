package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	t.Run("logs method, path and status", func(t *testing.T) {
		var buf bytes.Buffer
		m := NewLoggingMiddleware(zerolog.New(&buf))

		handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/deposits/req-1/approve", nil)
		handler.ServeHTTP(rec, req)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

		assert.Equal(t, "PATCH", entry["method"])
		assert.Equal(t, "/api/v1/deposits/req-1/approve", entry["path"])
		assert.Equal(t, float64(http.StatusConflict), entry["status"])
		assert.Contains(t, entry, "duration")
	})

	t.Run("default status is 200 when the handler never writes a header", func(t *testing.T) {
		var buf bytes.Buffer
		m := NewLoggingMiddleware(zerolog.New(&buf))

		handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, float64(http.StatusOK), entry["status"])
	})
}
