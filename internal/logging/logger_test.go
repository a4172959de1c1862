package logging

import (
	"context"
	"errors"
	"testing"
)

func TestDiscard_NeverPanics(t *testing.T) {
	l := Discard()
	ctx := context.Background()
	l.Debug(ctx, "hello", Field{Key: "a", Value: 1})
	l.Info(ctx, "hello", Field{Key: "a", Value: 1})
	l.Warn(ctx, "hello", Field{Key: "a", Value: 1})
	l.Error(ctx, errors.New("boom"), "hello", Field{Key: "a", Value: 1})
}

func TestZapLogger_RedactsSensitiveKeys(t *testing.T) {
	l := New().(*zapLogger)

	if !l.isSensitiveKey("Authorization") {
		t.Fatalf("expected Authorization to be treated as sensitive")
	}
	if !l.isSensitiveKey("x-api-key") {
		t.Fatalf("expected x-api-key to be treated as sensitive")
	}
	if l.isSensitiveKey("url") {
		t.Fatalf("expected url to not be treated as sensitive")
	}

	args := l.args([]Field{{Key: "Authorization", Value: "Bearer secret"}, {Key: "url", Value: "http://x"}})
	if args[1] != "[REDACTED]" {
		t.Fatalf("expected Authorization value to be redacted, got %v", args[1])
	}
	if args[3] != "http://x" {
		t.Fatalf("expected url value to pass through unredacted, got %v", args[3])
	}
}

func TestNewWithSensitiveKeys_OverridesDefaults(t *testing.T) {
	l := NewWithSensitiveKeys([]string{"custom"}).(*zapLogger)
	if l.isSensitiveKey("password") {
		t.Fatalf("expected password to no longer be sensitive with a custom key list")
	}
	if !l.isSensitiveKey("custom-field") {
		t.Fatalf("expected custom-field to match the custom sensitive key list")
	}
}
