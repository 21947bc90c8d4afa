package middle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/basiliclabs/pagoconnect/infra/logger"
)

// statusRecorder captures the status code written by downstream handlers
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware records a structured log line per request
func RequestLoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			logger.Info("request completed", logger.LogContext{
				Fields: map[string]any{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      recorder.status,
					"duration_ms": time.Since(start).Milliseconds(),
					"request_id":  middleware.GetReqID(r.Context()),
				},
			})
		})
	}
}
