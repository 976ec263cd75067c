package logger

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// WithRequestID attaches a request-scoped child of base to ctx.
//
// The child carries request_id and, when ctx holds a New Relic
// transaction, its trace and span ids. Sink picks it up for every event
// logged with the returned context.
func WithRequestID(ctx context.Context, base *zerolog.Logger, requestID string) context.Context {
	builder := base.With()
	if requestID != "" {
		builder = builder.Str("request_id", requestID)
	}

	scoped := WithTraceContext(builder.Logger(), newrelic.FromContext(ctx))
	return scoped.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or nil if there is none.
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return nil
	}
	return l
}
