package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/bryanwahyu/opticode/internal/telemetry"
)

// Recovery turns a panic into a 500 with a generic body.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(r.Context()),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       r.URL.Path,
					"method":     r.Method,
				})
				writeError(w, http.StatusInternalServerError, "Unexpected server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
