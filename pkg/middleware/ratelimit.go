package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sipandsavor/cafe/pkg/logger"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore keeps one token bucket per key and forgets keys idle for ttl.
type visitorStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorStore(rps float64, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *visitorStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictLocked sweeps idle visitors at most once per ttl window.
func (s *visitorStore) evictLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, key)
		}
	}
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimit enforces a token bucket per session, falling back to the client
// IP for requests without a session. It guards the assistant route, where
// every request costs an upstream model call. Exceeding the bucket yields 429.
func RateLimit(rps float64, burst int, l *slog.Logger) func(http.Handler) http.Handler {
	store := newVisitorStore(rps, burst, 10*time.Minute)
	return rateLimit(store, l)
}

func rateLimit(store *visitorStore, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only writes spend upstream quota.
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			key := "ip:" + clientIP(r)
			if sid := r.Header.Get(SessionHeader); sid != "" {
				key = "session:" + sid
			}

			if !store.allow(key) {
				l.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("key", key),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests",
					logger.CorrelationIDFromContext(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}
	return remoteHost(r)
}
