// Package logging is the ambient structured-logging concern every
// component in this module reaches for instead of the stdlib "log"
// package, carried regardless of the observability layers the spec's
// own Non-goals exclude.
//
// The interface shape (ctx-first, leveled methods, a Field value type)
// is grounded on JailtonJunior94/devkit-go's pkg/o11y.Logger; the OTLP
// export pipeline that interface wraps is out of scope here (no remote
// collector to export to), so this implementation drops straight to
// go.uber.org/zap's SugaredLogger instead of the OTel bridge, keeping
// only the field-based structured call shape and key-based redaction.
package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Field is a single structured key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging capability every internal package in
// this module depends on instead of a concrete *zap.Logger, so tests can
// substitute Discard (a zap no-op logger) for the production one.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, err error, msg string, fields ...Field)
}

// defaultSensitiveKeys mirrors the teacher-adjacent o11y.Logger's
// built-in redaction list: field names that commonly carry secrets and
// should never reach a log sink verbatim, the most relevant ones here
// being auth-related since this is an HTTP client.
var defaultSensitiveKeys = []string{
	"password", "secret", "token", "api_key", "api-key", "apikey",
	"authorization", "auth", "credential", "cookie",
}

type zapLogger struct {
	z               *zap.SugaredLogger
	sensitiveKeys   []string
	redactSensitive bool
}

// New builds a Logger atop a production zap.Logger (JSON encoding,
// epoch-seconds timestamps), sensitive-field redaction enabled by default.
func New() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z.Sugar(), sensitiveKeys: defaultSensitiveKeys, redactSensitive: true}
}

// NewWithSensitiveKeys builds a Logger with a caller-supplied
// redaction list instead of defaultSensitiveKeys.
func NewWithSensitiveKeys(keys []string) Logger {
	l := New().(*zapLogger)
	l.sensitiveKeys = keys
	return l
}

// Discard returns a Logger that drops every call, for tests and for
// callers who opt out of logging entirely.
func Discard() Logger { return &zapLogger{z: zap.NewNop().Sugar()} }

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.z.Debugw(msg, l.args(fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.z.Infow(msg, l.args(fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.z.Warnw(msg, l.args(fields)...)
}

func (l *zapLogger) Error(ctx context.Context, err error, msg string, fields ...Field) {
	args := l.args(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.z.Errorw(msg, args...)
}

func (l *zapLogger) args(fields []Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		value := f.Value
		if l.redactSensitive && l.isSensitiveKey(f.Key) {
			value = "[REDACTED]"
		}
		args = append(args, f.Key, value)
	}
	return args
}

func (l *zapLogger) isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range l.sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
