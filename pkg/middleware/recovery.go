package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/sipandsavor/cafe/pkg/logger"
)

// Recovery turns a panicking handler into a 500 response. http.ErrAbortHandler
// is re-raised so the server can drop the connection as intended.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeJSONError(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "an internal error occurred",
					logger.CorrelationIDFromContext(r.Context()))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
