package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-service/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestSink_Info(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	NewSink(&base).Info(context.Background(), "User a@x.com updated successfully")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "User a@x.com updated successfully", entries[0]["message"])
}

func TestSink_Error(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	NewSink(&base).Error(context.Background(), "error deleting user 7", errors.New("connection reset"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "error deleting user 7", entries[0]["message"])
	assert.Equal(t, "connection reset", entries[0]["error"])
}

func TestSink_PrefersContextLogger(t *testing.T) {
	var baseBuf, ctxBuf bytes.Buffer
	base := zerolog.New(&baseBuf)
	scoped := zerolog.New(&ctxBuf).With().Str("request_id", "req-1").Logger()

	ctx := scoped.WithContext(context.Background())
	NewSink(&base).Info(ctx, "hello")

	assert.Empty(t, baseBuf.String())

	entries := decodeLines(t, &ctxBuf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
}

func TestSink_NilLogger(t *testing.T) {
	sink := NewSink(nil)

	assert.NotPanics(t, func() {
		sink.Info(context.Background(), "dropped")
		sink.Error(context.Background(), "dropped", errors.New("x"))
	})
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	log := newLogger(&buf, zerolog.InfoLevel, cfg)
	log.Debug().Msg("filtered")
	log.Info().Msg("kept")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, config.ServiceName, entries[0]["service"])
	assert.Equal(t, "production", entries[0]["environment"])
	assert.NotContains(t, entries[0], "caller")
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := map[zerolog.Level]int{
		zerolog.TraceLevel: 6,
		zerolog.DebugLevel: 5,
		zerolog.InfoLevel:  4,
		zerolog.WarnLevel:  3,
		zerolog.ErrorLevel: 2,
		zerolog.FatalLevel: 1,
		zerolog.Disabled:   1,
	}

	for level, want := range tests {
		assert.Equal(t, want, GetPgxTraceLogLevel(level), level.String())
	}
}

func TestLoggerService_WithoutLicense(t *testing.T) {
	service := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
	assert.NotPanics(t, nilService.Shutdown)
}

func TestWithTraceContext_NoTransaction(t *testing.T) {
	var buf bytes.Buffer
	log := WithTraceContext(zerolog.New(&buf), nil)
	log.Info().Msg("plain")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "trace.id")
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithRequestID(context.Background(), &base, "req-42")
	require.NotNil(t, FromContext(ctx))

	NewSink(nil).Error(ctx, "error fetching user", errors.New("timeout"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0]["request_id"])
	assert.Equal(t, "error fetching user", entries[0]["message"])
}

func TestFromContext_Empty(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
}
