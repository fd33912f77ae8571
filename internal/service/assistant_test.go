package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipandsavor/cafe/internal/assistant"
	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/event"
	"github.com/sipandsavor/cafe/internal/repository"
	"github.com/sipandsavor/cafe/internal/repository/memory"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
	pkgkafka "github.com/sipandsavor/cafe/pkg/kafka"
)

const testAnswerTimeout = 20 * time.Second

type stubReplier struct {
	reply   assistant.Reply
	queries []string
	started chan struct{}
	unblock chan struct{}
	onReply func()
}

func (s *stubReplier) Reply(_ context.Context, query string) assistant.Reply {
	s.queries = append(s.queries, query)
	if s.started != nil {
		close(s.started)
		<-s.unblock
	}
	if s.onReply != nil {
		s.onReply()
	}
	return s.reply
}

// ctxRepository fails like a network store once the caller's context is done.
type ctxRepository struct {
	repository.SessionRepository
}

func (r ctxRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.SessionRepository.Get(ctx, id)
}

func (r ctxRepository) SaveIfVersion(ctx context.Context, sess *domain.Session, expected int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.SessionRepository.SaveIfVersion(ctx, sess, expected)
}

func TestAsk_RecordsQuestionAndReply(t *testing.T) {
	h := newHarness(t)
	replier := &stubReplier{reply: assistant.Reply{Text: "Try the Signature Cold Brew ☕", Outcome: assistant.OutcomeAnswered}}
	svc := NewAssistantService(h.svc, replier, newTestLogger(), testAnswerTimeout)
	before := testutil.ToFloat64(assistantReplies.WithLabelValues("answered"))

	msg, err := svc.Ask(context.Background(), "tab-1", "  I need a caffeine kick  ")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatRoleModel, msg.Role)
	assert.Equal(t, "Try the Signature Cold Brew ☕", msg.Text)
	assert.Equal(t, []string{"I need a caffeine kick"}, replier.queries)

	history, err := svc.History(context.Background(), "tab-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.AssistantGreeting, history[0].Text)
	assert.Equal(t, domain.ChatRoleUser, history[1].Role)
	assert.Equal(t, "I need a caffeine kick", history[1].Text)
	assert.Equal(t, msg.Text, history[2].Text)

	assert.Equal(t, before+1, testutil.ToFloat64(assistantReplies.WithLabelValues("answered")))
}

func TestAsk_FallbackReplyIsStillAMessage(t *testing.T) {
	h := newHarness(t)
	replier := &stubReplier{reply: assistant.Reply{Text: assistant.ReplyUnconfigured, Outcome: assistant.OutcomeUnconfigured}}
	svc := NewAssistantService(h.svc, replier, newTestLogger(), testAnswerTimeout)

	msg, err := svc.Ask(context.Background(), "tab-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, assistant.ReplyUnconfigured, msg.Text)
}

func TestAsk_RejectsBlankAndOversizedText(t *testing.T) {
	h := newHarness(t)
	replier := &stubReplier{}
	svc := NewAssistantService(h.svc, replier, newTestLogger(), testAnswerTimeout)

	_, err := svc.Ask(context.Background(), "tab-1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Ask(context.Background(), "tab-1", strings.Repeat("a", MaxQuestionLength+1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Empty(t, replier.queries)
	assert.Zero(t, h.repo.Len())
}

func TestAsk_OneRequestPerSession(t *testing.T) {
	h := newHarness(t)
	replier := &stubReplier{
		reply:   assistant.Reply{Text: "ok", Outcome: assistant.OutcomeAnswered},
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	svc := NewAssistantService(h.svc, replier, newTestLogger(), testAnswerTimeout)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Ask(context.Background(), "tab-1", "first")
		done <- err
	}()
	<-replier.started

	_, err := svc.Ask(context.Background(), "tab-1", "second")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	close(replier.unblock)
	require.NoError(t, <-done)

	history, err := svc.History(context.Background(), "tab-1")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestAsk_OneRequestAcrossInstances(t *testing.T) {
	h := newHarness(t)
	replier := &stubReplier{
		reply:   assistant.Reply{Text: "ok", Outcome: assistant.OutcomeAnswered},
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	first := NewAssistantService(h.svc, replier, newTestLogger(), testAnswerTimeout)
	second := NewAssistantService(h.svc, &stubReplier{}, newTestLogger(), testAnswerTimeout)

	done := make(chan error, 1)
	go func() {
		_, err := first.Ask(context.Background(), "tab-1", "first")
		done <- err
	}()
	<-replier.started

	_, err := second.Ask(context.Background(), "tab-1", "second")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	close(replier.unblock)
	require.NoError(t, <-done)

	stored, err := h.repo.Get(context.Background(), "tab-1")
	require.NoError(t, err)
	assert.Nil(t, stored.AssistantPendingSince)

	_, err = second.Ask(context.Background(), "tab-1", "now it is my turn")
	assert.NoError(t, err)
}

func TestAsk_AbandonedQuestionStopsBlocking(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewAssistantService(h.svc, &stubReplier{reply: assistant.Reply{Text: "ok"}}, newTestLogger(), testAnswerTimeout)

	_, err := h.svc.mutate(ctx, "tab-1", func(sess *domain.Session) error {
		at := h.now
		sess.AssistantPendingSince = &at
		return nil
	})
	require.NoError(t, err)

	_, err = svc.Ask(ctx, "tab-1", "hello?")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	h.now = h.now.Add(testAnswerTimeout + pendingGrace + time.Second)
	_, err = svc.Ask(ctx, "tab-1", "hello?")
	require.NoError(t, err)
}

func TestAsk_ReplySavedAfterClientLeaves(t *testing.T) {
	logger := newTestLogger()
	sessions := NewSessionService(ctxRepository{memory.NewSessionRepository()}, catalog.Default(),
		event.NewProducer(pkgkafka.Discard, logger), logger,
		SessionConfig{TTL: time.Hour, CheckoutDelay: testDelay})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	replier := &stubReplier{
		reply:   assistant.Reply{Text: "Try the Passion Fruit Green Tea.", Outcome: assistant.OutcomeAnswered},
		onReply: cancel,
	}
	svc := NewAssistantService(sessions, replier, logger, testAnswerTimeout)

	msg, err := svc.Ask(ctx, "tab-1", "Something fruity?")
	require.NoError(t, err)
	assert.Equal(t, "Try the Passion Fruit Green Tea.", msg.Text)

	sess, err := sessions.GetSession(context.Background(), "tab-1")
	require.NoError(t, err)
	require.Len(t, sess.Chat, 3)
	assert.Equal(t, msg.Text, sess.Chat[2].Text)
	assert.Nil(t, sess.AssistantPendingSince)
}
