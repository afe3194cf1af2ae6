package log

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/groupsite-api/internal/identity"
	"github.com/ErlanBelekov/groupsite-api/internal/requestid"
)

// ContextHandler wraps an slog.Handler and pulls request-scoped values out of
// the context of each log record.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler returns a handler that adds request_id and, for
// authenticated requests, user_id before delegating to inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if id, ok := identity.FromContext(ctx); ok {
		r.AddAttrs(slog.String("user_id", id.UserID))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
