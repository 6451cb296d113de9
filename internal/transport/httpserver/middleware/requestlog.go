package middleware

import (
	"net/http"
	"time"

	"household-app-go/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger stores a request scoped logger in the context and logs one
// line per request once it completes.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			scoped := log.With("request_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), scoped)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				scoped.Warn("http: request failed", args...)
				return
			}
			scoped.Debug("http: request", args...)
		})
	}
}
