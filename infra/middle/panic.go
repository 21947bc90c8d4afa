package middle

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/basiliclabs/pagoconnect/infra/logger"
	"github.com/basiliclabs/pagoconnect/infra/response"
)

// PanicRecoveryMiddleware handles panics and converts them to HTTP 500 errors.
// The checkout platform must never observe an unhandled fault from this service.
func PanicRecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered", fmt.Errorf("%v", err), logger.LogContext{
						Fields: map[string]any{
							"method": r.Method,
							"url":    r.URL.String(),
							"stack":  string(debug.Stack()),
						},
					})

					w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
					response.Error(w, http.StatusInternalServerError, "Internal server error", fmt.Errorf("an unexpected error occurred"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
