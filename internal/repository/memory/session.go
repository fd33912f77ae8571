package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/repository"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

type entry struct {
	data      []byte
	version   int
	expiresAt time.Time
}

// SessionRepository implements repository.SessionRepository in process memory.
// Sessions are stored as JSON so callers never share state with the store.
type SessionRepository struct {
	mu        sync.Mutex
	sessions  map[string]entry
	lastSweep time.Time
	now       func() time.Time
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Get returns a copy of the stored session.
func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok && !e.expiresAt.After(r.now()) {
		delete(r.sessions, id)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, apperrors.NotFound("session", id)
	}

	var s domain.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// SaveIfVersion stores s when the current version matches expected.
func (r *SessionRepository) SaveIfVersion(_ context.Context, s *domain.Session, expected int) error {
	next := expected + 1
	data, err := marshal(s, next)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	current := 0
	if e, ok := r.sessions[s.ID]; ok && e.expiresAt.After(now) {
		current = e.version
	}
	if current != expected {
		return repository.ErrVersionConflict
	}

	r.sessions[s.ID] = entry{data: data, version: next, expiresAt: s.ExpiresAt}
	s.Version = next
	return nil
}

// Ping always succeeds.
func (r *SessionRepository) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweepLocked drops expired sessions at most once a minute.
func (r *SessionRepository) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < time.Minute {
		return
	}
	r.lastSweep = now
	for id, e := range r.sessions {
		if !e.expiresAt.After(now) {
			delete(r.sessions, id)
		}
	}
}

func marshal(s *domain.Session, version int) ([]byte, error) {
	stored := *s
	stored.Version = version
	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}
