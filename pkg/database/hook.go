package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/sipandsavor/cafe/pkg/database"

// tracingHook starts a client span per Redis command or pipeline and logs
// commands slower than the threshold.
type tracingHook struct {
	threshold time.Duration
	logger    *slog.Logger
}

var _ redis.Hook = (*tracingHook)(nil)

func newTracingHook(threshold time.Duration, logger *slog.Logger) *tracingHook {
	return &tracingHook{
		threshold: threshold,
		logger:    logger,
	}
}

func (h *tracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := h.start(ctx, "redis."+cmd.Name(), cmd.Name(), 1)
		err := next(ctx, cmd)
		end(err)
		return err
	}
}

func (h *tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		ctx, end := h.start(ctx, "redis.pipeline", strings.Join(names, " "), len(cmds))
		err := next(ctx, cmds)
		end(err)
		return err
	}
}

func (h *tracingHook) start(ctx context.Context, spanName, operation string, n int) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.Int("db.redis.num_cmd", n),
		),
	)

	return ctx, func(err error) {
		// redis.Nil is a cache miss, not a failure.
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.threshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.threshold {
			h.logger.WarnContext(ctx, "slow redis command",
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			)
		}
	}
}
