package middleware

import (
	"log/slog"
	"net/http"

	"github.com/sipandsavor/cafe/pkg/logger"
)

// SessionHeader identifies the ordering session a request acts on.
const SessionHeader = "X-Session-ID"

// RequestLogger stores a request-scoped logger carrying correlation_id,
// session_id, trace_id and span_id in the context. Mount it after
// RequestLogging and Tracing so those values are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sid := r.Header.Get(SessionHeader); sid != "" && logger.SessionIDFromContext(ctx) == "" {
				ctx = logger.WithSessionID(ctx, sid)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
