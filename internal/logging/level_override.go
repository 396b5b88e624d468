package logging

import (
	"context"
	"log/slog"
)

// minLevelHandler drops records below min before delegating. The wrapped
// handler runs at the most verbose level any component asks for.
type minLevelHandler struct {
	inner slog.Handler
	min   slog.Level
}

func newLevelOverrideHandler(inner slog.Handler, floor slog.Level) slog.Handler {
	if inner == nil {
		inner = NoopHandler{}
	}
	return minLevelHandler{inner: inner, min: floor}
}

func (h minLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.inner.Enabled(ctx, level)
}

func (h minLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.min {
		return nil
	}
	return h.inner.Handle(ctx, record)
}

func (h minLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return minLevelHandler{inner: h.inner.WithAttrs(attrs), min: h.min}
}

func (h minLevelHandler) WithGroup(name string) slog.Handler {
	return minLevelHandler{inner: h.inner.WithGroup(name), min: h.min}
}

// WithLevelOverride returns logger with its own minimum level. An existing
// level filter is replaced rather than stacked, so a component may be more
// verbose than the root. Bound attributes are kept.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	handler := logger.Handler()
	if filtered, ok := handler.(minLevelHandler); ok {
		handler = filtered.inner
	}
	return slog.New(newLevelOverrideHandler(handler, level))
}
