package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/event"
	"github.com/sipandsavor/cafe/internal/repository/memory"
	pkgkafka "github.com/sipandsavor/cafe/pkg/kafka"
)

// --- Mock Repository ---

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepository) SaveIfVersion(ctx context.Context, s *domain.Session, expected int) error {
	args := m.Called(ctx, s, expected)
	return args.Error(0)
}

func (m *mockSessionRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Recording Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []*pkgkafka.Event
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}

// --- Test Helpers ---

const testDelay = 500 * time.Millisecond

type harness struct {
	svc       *SessionService
	repo      *memory.SessionRepository
	publisher *recordingPublisher
	now       time.Time
	scheduled []func()
	ids       int
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	// The memory store expires sessions against the wall clock.
	h := &harness{
		repo:      memory.NewSessionRepository(),
		publisher: &recordingPublisher{},
		now:       time.Now().UTC().Truncate(time.Second),
	}
	logger := newTestLogger()
	h.svc = NewSessionService(h.repo, catalog.Default(), event.NewProducer(h.publisher, logger), logger,
		SessionConfig{TTL: 12 * time.Hour, CheckoutDelay: testDelay})
	h.svc.now = func() time.Time { return h.now }
	h.svc.newID = func() string {
		h.ids++
		return fmt.Sprintf("id-%d", h.ids)
	}
	h.svc.schedule = func(_ time.Duration, f func()) {
		h.scheduled = append(h.scheduled, f)
	}
	return h
}

// runScheduled runs every pending checkout completion.
func (h *harness) runScheduled() {
	fns := h.scheduled
	h.scheduled = nil
	for _, f := range fns {
		f()
	}
}

// addToCart customizes productID and commits it.
func (h *harness) addToCart(t *testing.T, sessionID, productID string, toppings ...string) *domain.Session {
	t.Helper()
	ctx := context.Background()
	_, err := h.svc.OpenCustomization(ctx, sessionID, productID)
	require.NoError(t, err)
	for _, id := range toppings {
		_, err = h.svc.ToggleTopping(ctx, sessionID, id)
		require.NoError(t, err)
	}
	sess, err := h.svc.CommitCustomization(ctx, sessionID)
	require.NoError(t, err)
	return sess
}
