package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/repository"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

func newRepo(now *time.Time) *SessionRepository {
	r := NewSessionRepository()
	r.now = func() time.Time { return *now }
	return r
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepo(&now)
	ctx := context.Background()

	s := domain.NewSession("s-1", now, time.Hour)
	require.NoError(t, repo.SaveIfVersion(ctx, s, 0))
	assert.Equal(t, 1, s.Version)

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, domain.CheckoutIdle, got.Checkout.Status)
	require.Len(t, got.Chat, 1)
}

func TestSessionRepository_GetReturnsCopy(t *testing.T) {
	now := time.Now()
	repo := newRepo(&now)
	ctx := context.Background()

	s := domain.NewSession("s-1", now, time.Hour)
	require.NoError(t, repo.SaveIfVersion(ctx, s, 0))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	got.Cart.Add(domain.CartItem{ID: "x", Quantity: 1})

	again, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, again.Cart.IsEmpty())
}

func TestSessionRepository_GetMissing(t *testing.T) {
	now := time.Now()
	repo := newRepo(&now)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionRepository_VersionConflict(t *testing.T) {
	now := time.Now()
	repo := newRepo(&now)
	ctx := context.Background()

	s := domain.NewSession("s-1", now, time.Hour)
	require.NoError(t, repo.SaveIfVersion(ctx, s, 0))

	stale := domain.NewSession("s-1", now, time.Hour)
	err := repo.SaveIfVersion(ctx, stale, 0)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 0, stale.Version)

	require.NoError(t, repo.SaveIfVersion(ctx, s, 1))
	assert.Equal(t, 2, s.Version)
}

func TestSessionRepository_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepo(&now)
	ctx := context.Background()

	s := domain.NewSession("s-1", now, time.Minute)
	require.NoError(t, repo.SaveIfVersion(ctx, s, 0))

	now = now.Add(2 * time.Minute)
	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// An expired session can be recreated from scratch.
	fresh := domain.NewSession("s-1", now, time.Minute)
	require.NoError(t, repo.SaveIfVersion(ctx, fresh, 0))
}

func TestSessionRepository_SweepsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepo(&now)
	ctx := context.Background()

	require.NoError(t, repo.SaveIfVersion(ctx, domain.NewSession("old", now, time.Minute), 0))
	now = now.Add(5 * time.Minute)
	require.NoError(t, repo.SaveIfVersion(ctx, domain.NewSession("new", now, time.Hour), 0))

	assert.Equal(t, 1, repo.Len())
}
