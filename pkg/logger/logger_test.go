package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := newLogger(Config{Level: level, Encoding: "json"}); err != nil {
			t.Errorf("level %q should build a logger, got: %v", level, err)
		}
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger(Config{Level: "shout", Encoding: "json"}); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestNewLoggerConsoleEncoding(t *testing.T) {
	logger, err := newLogger(Config{Level: "debug", Encoding: "console", Development: true})
	if err != nil {
		t.Fatalf("console logger should build: %v", err)
	}
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
}

func TestGetNeverNil(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get should never return nil")
	}
	if With(zap.String("component", "test")) == nil {
		t.Error("With should never return nil")
	}
}

func TestWithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), OperationKey, "convert")
	ctx = context.WithValue(ctx, FormatKey, "csv")
	ctx = context.WithValue(ctx, PathKey, "/tmp/in.csv")

	if WithContext(ctx) == nil {
		t.Error("WithContext should never return nil")
	}
	if WithContext(context.Background()) == nil {
		t.Error("WithContext without values should fall back to the global logger")
	}
}
