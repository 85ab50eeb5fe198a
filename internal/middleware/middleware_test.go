package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestLogging_PassesStatus(t *testing.T) {
	h := RequestID(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "info", levelFor(http.StatusOK).String())
	assert.Equal(t, "warn", levelFor(http.StatusNotFound).String())
	assert.Equal(t, "error", levelFor(http.StatusInternalServerError).String())
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	h := rateLimit(2, func() time.Time { return now })(http.HandlerFunc(okHandler))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	first := call("10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001").Code)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002").Code)

	// другой клиент считается отдельно
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000").Code)

	// после окна счётчик сбрасывается
	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5003").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0)(http.HandlerFunc(okHandler))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestLimiter_DropsExpiredClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(5, time.Minute, func() time.Time { return now })

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		ok, _, _ := l.allow(ip)
		require.True(t, ok)
	}
	assert.Len(t, l.clients, 3)

	// внутри окна никого не удаляем
	now = now.Add(30 * time.Second)
	l.allow("10.0.0.1")
	assert.Len(t, l.clients, 3)

	now = now.Add(time.Minute)
	ok, remaining, _ := l.allow("10.0.0.4")
	require.True(t, ok)
	assert.Equal(t, 4, remaining)

	// у 10.0.0.1 окно истекло вместе с остальными
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.4")
}
