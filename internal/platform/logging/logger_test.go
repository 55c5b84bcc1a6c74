package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testKind string

func (k testKind) String() string { return string(k) }

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.With("component", "enrichment").Warn("fetch failed",
		"match_id", int64(42),
		"kind", testKind("odds"),
		"error", errors.New("status 404"),
		"dangling",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "enrichment" || fields["match_id"] != int64(42) || fields["kind"] != "odds" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["error"] != "status 404" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "run finished")
	logger.DebugContext(ctx, "filtered out")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry above level, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["trace_id"]; got != traceID.String() {
		t.Fatalf("unexpected trace_id %v", got)
	}
}

func TestNewJSONWriter_WritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(LevelInfo, &buf)
	logger.Info("store merged", "path", "data/odds/20260110.json")

	out := buf.String()
	if !strings.Contains(out, `"msg":"store merged"`) || !strings.Contains(out, `"path":"data/odds/20260110.json"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Fatalf("expected caller to point at the test file: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	if level, err := ParseLevel("WARNING"); err != nil || level != LevelWarn {
		t.Fatalf("unexpected level=%v err=%v", level, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unsupported level")
	}
}
