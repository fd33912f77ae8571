package repository

import (
	"context"
	"fmt"

	"github.com/sipandsavor/cafe/internal/domain"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

// ErrVersionConflict is returned by SaveIfVersion when the stored session has
// moved past the expected version.
var ErrVersionConflict = fmt.Errorf("session version conflict: %w", apperrors.ErrConflict)

// SessionRepository defines the persistence operations for ordering sessions.
type SessionRepository interface {
	// Get retrieves a session by ID. A missing or expired session is a
	// NotFound error.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// SaveIfVersion stores s when the stored version equals expected (0 means
	// the session must not exist yet). On success s.Version is set to
	// expected+1. Otherwise ErrVersionConflict is returned and s is unchanged.
	SaveIfVersion(ctx context.Context, s *domain.Session, expected int) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
