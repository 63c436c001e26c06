package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"bookshelf/internal/httpx"
)

// New builds a slog logger writing text or json records to w.
// Records logged with a request context carry its request_id.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	ho := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "json":
		h = slog.NewJSONHandler(w, ho)
	case "text", "":
		h = slog.NewTextHandler(w, ho)
	default:
		return nil, fmt.Errorf("log format must be json or text, got %q", format)
	}

	return slog.New(&handler{base: h}), nil
}

type handler struct {
	base slog.Handler
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := httpx.RequestIDFromContext(ctx); requestID != "" {
		record = record.Clone()
		record.AddAttrs(slog.String("request_id", requestID))
	}
	return h.base.Handle(ctx, record)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{base: h.base.WithAttrs(attrs)}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{base: h.base.WithGroup(name)}
}
