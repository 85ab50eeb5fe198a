package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todoList/internal/logger"

	"go.uber.org/zap"
)

type clientInfo struct {
	count   int
	resetAt time.Time
}

type limiter struct {
	mtx       sync.Mutex
	clients   map[string]*clientInfo
	rpm       int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newLimiter(rpm int, window time.Duration, now func() time.Time) *limiter {
	return &limiter{
		clients:   make(map[string]*clientInfo),
		rpm:       rpm,
		window:    window,
		now:       now,
		lastSweep: now(),
	}
}

// allow возвращает остаток запросов и момент сброса окна
func (l *limiter) allow(ip string) (ok bool, remaining int, resetAt time.Time) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.now()
	l.sweep(now)

	info, exists := l.clients[ip]
	switch {
	case !exists || now.After(info.resetAt):
		info = &clientInfo{count: 1, resetAt: now.Add(l.window)}
		l.clients[ip] = info
	case info.count >= l.rpm:
		return false, 0, info.resetAt
	default:
		info.count++
	}

	return true, max(l.rpm-info.count, 0), info.resetAt
}

// sweep раз в окно удаляет клиентов с истёкшим окном
func (l *limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for ip, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit ограничивает число запросов с одного IP в минуту; rpm <= 0 отключает лимит
func RateLimit(rpm int) func(http.Handler) http.Handler {
	return rateLimit(rpm, time.Now)
}

func rateLimit(rpm int, now func() time.Time) func(http.Handler) http.Handler {
	l := newLimiter(rpm, time.Minute, now)

	return func(next http.Handler) http.Handler {
		if rpm <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, remaining, resetAt := l.allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("client_ip", ip),
					zap.String("request_id", GetRequestID(r.Context())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":       "rate_limit_exceeded",
					"message":     "Слишком много запросов. Попробуйте позже.",
					"retry_after": int(resetAt.Sub(l.now()).Seconds()),
					"request_id":  GetRequestID(r.Context()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
