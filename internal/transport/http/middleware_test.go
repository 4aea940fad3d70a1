package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ITOpsDashboard/pkg/logger"
)

// TestLoggingMiddleware_Success проверяет, что middleware логирует запрос без паники
func TestLoggingMiddleware_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.EnvLocal)

	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPut, "/test-path?x=1", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	require.Equal(t, http.StatusCreated, rw.Code)
	require.Equal(t, "ok", rw.Body.String())

	out := buf.String()
	require.Contains(t, out, "method=PUT")
	require.Contains(t, out, "path=/test-path")
	require.Contains(t, out, "status=201")
}

// TestLoggingMiddleware_Panic проверяет, что middleware логирует панику и пробрасывает её дальше
func TestLoggingMiddleware_Panic(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.EnvLocal)

	h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom error")
	}))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rw := httptest.NewRecorder()

	defer func() {
		require.NotNil(t, recover(), "ожидалась паника")
		out := buf.String()
		require.Contains(t, out, "level=ERROR")
		require.Contains(t, out, "path=/panic")
		require.Contains(t, out, "boom error")
	}()

	h.ServeHTTP(rw, req)
}

// TestStatusResponseWriter_Flush обёртка не скрывает http.Flusher от SSE
func TestStatusResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	var w http.ResponseWriter = &statusResponseWriter{ResponseWriter: rec, status: http.StatusOK}
	f, ok := w.(http.Flusher)
	require.True(t, ok)
	f.Flush()
	require.True(t, rec.Flushed)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/equipment", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	require.Equal(t, http.StatusNoContent, call("10.0.0.1:5001"))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	// у другого клиента своя корзина
	require.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}

func TestIPLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	require.True(t, l.allow("10.0.0.1"))
	require.False(t, l.allow("10.0.0.1"))
	require.Len(t, l.visitors, 1)

	now = now.Add(visitorTTL + time.Second)
	require.True(t, l.allow("10.0.0.2"))
	require.Len(t, l.visitors, 1)
	require.Contains(t, l.visitors, "10.0.0.2")
}
