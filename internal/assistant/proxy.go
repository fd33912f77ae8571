// Package assistant answers menu questions through a generative language model.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Generator produces a model reply for a single query.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, query string) (string, error)
}

// Outcome classifies how a reply was produced.
type Outcome string

// Reply outcomes.
const (
	OutcomeAnswered     Outcome = "answered"
	OutcomeEmpty        Outcome = "empty"
	OutcomeFailed       Outcome = "failed"
	OutcomeUnconfigured Outcome = "unconfigured"
)

// Reply is the text shown to the customer.
type Reply struct {
	Text    string
	Outcome Outcome
}

// Proxy turns a customer question into a grounded model request and maps
// every failure to a friendly fixed reply. It never returns an error.
type Proxy struct {
	gen         Generator
	instruction string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewProxy creates a proxy grounded in menuContext. A nil gen means no
// credential is configured.
func NewProxy(gen Generator, menuContext string, timeout time.Duration, logger *slog.Logger) *Proxy {
	return &Proxy{
		gen:         gen,
		instruction: SystemInstruction(menuContext),
		timeout:     timeout,
		logger:      logger,
	}
}

// Configured reports whether a model is available.
func (p *Proxy) Configured() bool {
	return p.gen != nil
}

// Reply answers query.
func (p *Proxy) Reply(ctx context.Context, query string) Reply {
	if p.gen == nil {
		return Reply{Text: ReplyUnconfigured, Outcome: OutcomeUnconfigured}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := p.gen.Generate(ctx, p.instruction, query)
	switch {
	case errors.Is(err, ErrEmptyReply):
		return Reply{Text: ReplyEmpty, Outcome: OutcomeEmpty}
	case err != nil:
		p.logger.ErrorContext(ctx, "assistant request failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return Reply{Text: ReplyUnavailable, Outcome: OutcomeFailed}
	case text == "":
		return Reply{Text: ReplyEmpty, Outcome: OutcomeEmpty}
	}

	p.logger.DebugContext(ctx, "assistant replied", slog.Duration("duration", time.Since(start)))
	return Reply{Text: text, Outcome: OutcomeAnswered}
}
