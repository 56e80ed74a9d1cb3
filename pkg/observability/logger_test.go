package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, cfg observability.Config) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, cfg))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = "1.0.0"
	logger := newJSONLogger(&buf, cfg)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "walk started")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "commentlife", record["service"])
	assert.Equal(t, "1.0.0", record["version"])
	assert.Equal(t, "cli", record["mode"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeMCP
	logger := newJSONLogger(&buf, cfg)

	logger.InfoContext(context.Background(), "no span")

	record := decodeRecord(t, &buf)

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)

	_, hasVersion := record["version"]
	assert.False(t, hasVersion)

	assert.Equal(t, "mcp", record["mode"])
}

func TestTracingHandler_WithGroupKeepsServiceTopLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, observability.DefaultConfig())

	logger.WithGroup("file").InfoContext(context.Background(), "walked", slog.String("path", "a.py"))

	record := decodeRecord(t, &buf)
	assert.Equal(t, "commentlife", record["service"])

	group, ok := record["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a.py", group["path"])
}

func TestTracingHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, observability.DefaultConfig()).With(slog.String("repo", "/src/app"))

	logger.InfoContext(context.Background(), "started")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "/src/app", record["repo"])
	assert.Equal(t, "commentlife", record["service"])
}

func TestNewLogger_RespectsLevelAndWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelWarn
	cfg.LogWriter = &buf

	logger := observability.NewLogger(cfg)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "kept", record["msg"])
}
