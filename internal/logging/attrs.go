package logging

import (
	"context"
	"log/slog"
	"time"
)

// Attr aliases slog.Attr for convenience.
type Attr = slog.Attr

// String constructs a string attribute.
func String(key, value string) Attr { return slog.String(key, value) }

// Int constructs an int attribute.
func Int(key string, value int) Attr { return slog.Int(key, value) }

// Int64 constructs an int64 attribute.
func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

// Bool constructs a bool attribute.
func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

// Duration constructs a duration attribute.
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

// Any constructs an attribute with arbitrary value.
func Any(key string, value any) Attr { return slog.Any(key, value) }

// Error constructs an error attribute using the conventional "error" key.
func Error(err error) Attr {
	if err == nil {
		return slog.Any("error", nil)
	}
	return slog.Any("error", err)
}

// Args converts typed attributes to variadic arguments for slog calls.
func Args(attrs ...Attr) []any {
	out := make([]any, len(attrs))
	for i, attr := range attrs {
		out[i] = attr
	}
	return out
}

// NewNop returns a logger that discards all log messages.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NoopHandler drops every record.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h NoopHandler) WithGroup(string) slog.Handler           { return h }

// NewComponentLogger derives a component-scoped logger, falling back to a no-op
// logger when base is nil.
func NewComponentLogger(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		base = NewNop()
	}
	if component == "" {
		return base
	}
	return base.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning with the standard event_type/error_hint/impact
// fields used for operator-facing diagnostics.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logWithContext(logger, slog.LevelWarn, msg, eventType, attrs...)
}

// ErrorWithContext logs an error with the standard event_type field.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logWithContext(logger, slog.LevelError, msg, eventType, attrs...)
}

func logWithContext(logger *slog.Logger, level slog.Level, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	if eventType != "" && !HasAttrKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	logger.Log(context.Background(), level, msg, Args(attrs...)...)
}

// HasAttrKey reports whether attrs contains key.
func HasAttrKey(attrs []Attr, key string) bool {
	for _, attr := range attrs {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// Stringify renders arbitrary values the way the console handler does.
func Stringify(value any) string {
	return formatValue(slog.AnyValue(value))
}
