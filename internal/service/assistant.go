package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sipandsavor/cafe/internal/assistant"
	"github.com/sipandsavor/cafe/internal/domain"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

const (
	// MaxQuestionLength is the longest question, in characters, sent to the assistant.
	MaxQuestionLength = 500
	// pendingGrace is added to the answer timeout before a pending question
	// left behind by a crashed process stops blocking new ones.
	pendingGrace = 10 * time.Second
	// replySaveTimeout bounds storing the reply once the model has answered.
	replySaveTimeout = 5 * time.Second
)

// Replier answers a customer question. *assistant.Proxy implements it.
type Replier interface {
	Reply(ctx context.Context, query string) assistant.Reply
}

// AssistantService keeps the chat log of a session and relays questions to
// the assistant, one at a time per session.
type AssistantService struct {
	sessions       *SessionService
	replier        Replier
	logger         *slog.Logger
	pendingTimeout time.Duration
}

// NewAssistantService creates a new assistant service. answerTimeout is the
// longest the replier takes to answer.
func NewAssistantService(sessions *SessionService, replier Replier, logger *slog.Logger, answerTimeout time.Duration) *AssistantService {
	return &AssistantService{
		sessions:       sessions,
		replier:        replier,
		logger:         logger,
		pendingTimeout: answerTimeout + pendingGrace,
	}
}

// History returns the chat log of a session, starting with the greeting.
func (a *AssistantService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	sess, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Chat, nil
}

// Ask records the question, asks the assistant and records its reply. Only
// the current question is sent; earlier turns are not replayed. The pending
// marker lives on the session, so a second question is refused whichever
// process receives it.
func (a *AssistantService) Ask(ctx context.Context, sessionID, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, apperrors.InvalidInput("message text is required")
	}
	if utf8.RuneCountInString(text) > MaxQuestionLength {
		return domain.ChatMessage{}, apperrors.InvalidInput("message text is too long")
	}

	if _, err := a.sessions.mutate(ctx, sessionID, func(sess *domain.Session) error {
		now := a.sessions.now()
		if p := sess.AssistantPendingSince; p != nil && now.Before(p.Add(a.pendingTimeout)) {
			return apperrors.Conflict("the assistant is still answering the previous message")
		}
		sess.AssistantPendingSince = &now
		sess.AppendChat(domain.ChatRoleUser, text, now)
		return nil
	}); err != nil {
		return domain.ChatMessage{}, err
	}

	reply := a.replier.Reply(ctx, text)
	assistantReplies.WithLabelValues(string(reply.Outcome)).Inc()

	// The reply is kept even when the client has gone away meanwhile.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replySaveTimeout)
	defer cancel()

	msg := domain.ChatMessage{Role: domain.ChatRoleModel, Text: reply.Text}
	if _, err := a.sessions.mutate(saveCtx, sessionID, func(sess *domain.Session) error {
		msg.Timestamp = a.sessions.now()
		sess.AppendChat(msg.Role, msg.Text, msg.Timestamp)
		sess.AssistantPendingSince = nil
		return nil
	}); err != nil {
		return domain.ChatMessage{}, err
	}

	a.logger.InfoContext(ctx, "assistant replied",
		slog.String("session_id", sessionID),
		slog.String("outcome", string(reply.Outcome)),
	)
	return msg, nil
}
