package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/event"
	"github.com/sipandsavor/cafe/internal/repository"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

const (
	// maxSaveAttempts bounds the optimistic-locking retry loop.
	maxSaveAttempts = 5
	// staleCheckoutGrace is how long past the checkout delay a submitting
	// session may stay before the next load completes it.
	staleCheckoutGrace = 5 * time.Second
	// completionTimeout bounds the work done when a checkout completes.
	completionTimeout = 10 * time.Second
)

// errUnchanged tells mutate that fn made no change and nothing needs saving.
var errUnchanged = errors.New("session unchanged")

// SessionConfig holds the tunables of the ordering session service.
type SessionConfig struct {
	TTL           time.Duration
	CheckoutDelay time.Duration
}

// SessionService implements the ordering flow on top of a session: the
// customization modal, the cart and checkout.
type SessionService struct {
	repo     repository.SessionRepository
	catalog  *catalog.Catalog
	producer *event.Producer
	logger   *slog.Logger
	ttl      time.Duration
	delay    time.Duration

	now      func() time.Time
	newID    func() string
	schedule func(d time.Duration, f func())
	pending  sync.WaitGroup
}

// NewSessionService creates a new session service.
func NewSessionService(repo repository.SessionRepository, cat *catalog.Catalog, producer *event.Producer, logger *slog.Logger, cfg SessionConfig) *SessionService {
	return &SessionService{
		repo:     repo,
		catalog:  cat,
		producer: producer,
		logger:   logger,
		ttl:      cfg.TTL,
		delay:    cfg.CheckoutDelay,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// CreateSession starts a new, empty session with a generated ID.
func (s *SessionService) CreateSession(ctx context.Context) (*domain.Session, error) {
	sess := domain.NewSession(s.newID(), s.now(), s.ttl)
	if err := s.repo.SaveIfVersion(ctx, sess, 0); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session created", slog.String("session_id", sess.ID))
	return sess, nil
}

// GetSession returns the session with the given ID. Unknown IDs yield a fresh
// session that is stored on its first change.
func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	sess, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.checkoutStale(sess) {
		return s.mutate(ctx, id, func(*domain.Session) error { return errUnchanged })
	}
	return sess, nil
}

// Wait blocks until every scheduled checkout completion has run or ctx is done.
func (s *SessionService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionService) load(ctx context.Context, id string) (*domain.Session, int, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewSession(id, s.now(), s.ttl), 0, nil
		}
		return nil, 0, fmt.Errorf("get session: %w", err)
	}
	return sess, sess.Version, nil
}

// mutate applies fn to the current session and saves it, retrying from a
// fresh read when another writer got there first. A submitting session whose
// completion is overdue is completed and saved before fn runs, so fn always
// sees the state after the order went out.
func (s *SessionService) mutate(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		sess, expected, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}

		if s.checkoutStale(sess) {
			order := s.completeOrder(sess)
			if err := s.save(ctx, sess, expected); err != nil {
				if errors.Is(err, repository.ErrVersionConflict) {
					s.logConflict(ctx, id, attempt)
					continue
				}
				return nil, err
			}
			s.logger.WarnContext(ctx, "completed overdue checkout",
				slog.String("session_id", id),
				slog.String("order_id", order.orderID),
			)
			s.orderSubmitted(ctx, id, order)
			expected = sess.Version
		}

		if err := fn(sess); err != nil {
			if errors.Is(err, errUnchanged) {
				return sess, nil
			}
			return nil, err
		}

		err = s.save(ctx, sess, expected)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		s.logConflict(ctx, id, attempt)
	}

	return nil, apperrors.Conflict("session was modified concurrently, please retry")
}

// save stamps sess and stores it if the stored version is still expected.
// Version conflicts are returned as is.
func (s *SessionService) save(ctx context.Context, sess *domain.Session, expected int) error {
	sess.Touch(s.now(), s.ttl)
	err := s.repo.SaveIfVersion(ctx, sess, expected)
	if err == nil || errors.Is(err, repository.ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("save session: %w", err)
}

func (s *SessionService) logConflict(ctx context.Context, id string, attempt int) {
	s.logger.DebugContext(ctx, "session version conflict, retrying",
		slog.String("session_id", id),
		slog.Int("attempt", attempt),
	)
}

// requireIdle rejects changes to the order while it is being submitted.
func requireIdle(sess *domain.Session) error {
	if sess.Checkout.Submitting() {
		return apperrors.Conflict("order is being submitted")
	}
	return nil
}
