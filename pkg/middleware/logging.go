package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sipandsavor/cafe/pkg/logger"
)

// CorrelationHeader carries the request id in and out of the service.
const CorrelationHeader = "X-Correlation-ID"

// RequestLogging assigns a correlation id (reusing the caller's when present)
// and logs one line per request. Health probes and metric scrapes are logged
// at debug so they don't drown out real traffic.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(CorrelationHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			ctx := logger.WithCorrelationID(r.Context(), correlationID)
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationHeader, correlationID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case isProbe(r.URL.Path):
				level = slog.LevelDebug
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("correlation_id", correlationID),
			}
			if sid := r.Header.Get(SessionHeader); sid != "" {
				attrs = append(attrs, slog.String("session_id", sid))
			}
			l.LogAttrs(ctx, level, "http request", attrs...)
		})
	}
}

func isProbe(path string) bool {
	return strings.HasPrefix(path, "/health") || path == "/metrics"
}
