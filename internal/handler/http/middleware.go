package http

import (
	"net/http"
	"strings"

	apperrors "github.com/sipandsavor/cafe/pkg/errors"
	"github.com/sipandsavor/cafe/pkg/httputil"
	"github.com/sipandsavor/cafe/pkg/logger"
	"github.com/sipandsavor/cafe/pkg/middleware"
)

// maxSessionIDLength bounds the X-Session-ID header.
const maxSessionIDLength = 128

// RequireSession is middleware that reads the X-Session-ID header and stores
// it in the request context. A missing or malformed header is rejected with
// 401 Unauthorized.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(middleware.SessionHeader)
		if !validSessionID(sid) {
			httputil.WriteError(w, r, apperrors.Unauthorized(middleware.SessionHeader+" header is required"), nil)
			return
		}
		ctx := logger.WithSessionID(r.Context(), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the session ID stored by RequireSession.
func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// validSessionID accepts 1 to 128 characters of [A-Za-z0-9_-], which covers
// UUIDs and other URL-safe tokens.
func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
