package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"todoList/internal/logger"

	"go.uber.org/zap"
)

// Recover превращает панику обработчика в 500
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("HTTP: Паника в обработчике", fmt.Errorf("%v", rec),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":      "internal_error",
				"request_id": GetRequestID(r.Context()),
			})
		}()

		next.ServeHTTP(w, r)
	})
}
