package logger

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "debug", ServiceName: "svc", OutputPath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.ServiceName() != "svc" {
		t.Errorf("ServiceName() = %q, want svc", l.ServiceName())
	}
	l.Info("hello")
	_ = l.Sync()
}

func TestWithContext_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{Logger: zap.New(core)}

	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.InfoContext(ctx, "registered")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-123" {
		t.Errorf("request_id = %v, want req-123", got)
	}
}

func TestWithContext_Empty(t *testing.T) {
	l := NewNop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("WithContext() without fields should return the same logger")
	}
}

func TestSetAndGet(t *testing.T) {
	nop := NewNop()
	Set(nop)
	if Get() != nop {
		t.Error("Get() should return the logger passed to Set()")
	}
}
