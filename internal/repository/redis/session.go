package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/repository"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

const keyPrefix = "session:"

// minTTL keeps a session that is saved right at its expiry readable for the
// rest of the request.
const minTTL = time.Second

// SessionRepository implements repository.SessionRepository using Redis.
// Optimistic versioning uses WATCH/MULTI on the session key.
type SessionRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new Redis-backed session repository.
func NewSessionRepository(client redis.UniversalClient) *SessionRepository {
	return &SessionRepository{
		client: client,
		now:    time.Now,
	}
}

// Get retrieves a session by ID from Redis.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("session", id)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// SaveIfVersion writes s inside a WATCH transaction so a concurrent writer
// between the version check and the write aborts this save.
func (r *SessionRepository) SaveIfVersion(ctx context.Context, s *domain.Session, expected int) error {
	key := keyPrefix + s.ID
	next := expected + 1

	stored := *s
	stored.Version = next
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl < minTTL {
		ttl = minTTL
	}

	txf := func(tx *redis.Tx) error {
		current, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expected {
			return repository.ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return repository.ErrVersionConflict
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("redis save session: %w", err)
	}

	s.Version = next
	return nil
}

// Ping checks the Redis connection.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get session: %w", err)
	}

	var v struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("unmarshal session version: %w", err)
	}
	return v.Version, nil
}
