package logger

import (
	"context"

	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Sink records repository events through zerolog.
//
// A logger attached to the context (see WithRequestID) wins over the base
// logger, so request-scoped fields flow into repository events.
type Sink struct {
	logger *zerolog.Logger
}

// NewSink returns a Sink writing to logger. A nil logger discards everything.
func NewSink(logger *zerolog.Logger) *Sink {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Sink{logger: logger}
}

// Info records an informational event.
func (s *Sink) Info(ctx context.Context, msg string) {
	l := s.from(ctx)
	l.Info().Msg(msg)
}

// Error records a failure and notices it on the New Relic transaction in
// ctx, if there is one.
func (s *Sink) Error(ctx context.Context, msg string, err error) {
	l := s.from(ctx)
	l.Error().Stack().Err(err).Msg(msg)

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
}

func (s *Sink) from(ctx context.Context) zerolog.Logger {
	if scoped := FromContext(ctx); scoped != nil {
		// WithRequestID already added the trace context.
		return *scoped
	}
	return WithTraceContext(*s.logger, newrelic.FromContext(ctx))
}
