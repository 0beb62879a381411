// Package logging carries vault correlation values through a context and adds
// them to every slog record.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type ctxKey int

const (
	ownerKey ctxKey = iota
	operationKey
)

// Redacted replaces the value of any attribute whose key names a secret.
const Redacted = "[REDACTED]"

// WithOwner returns a context with the vault owner set.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// WithOperation returns a context with the vault operation name set.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// Owner extracts the owner from the context, or "" if absent.
func Owner(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey).(string)
	return v
}

// Operation extracts the operation from the context, or "" if absent.
func Operation(ctx context.Context) string {
	v, _ := ctx.Value(operationKey).(string)
	return v
}

// CorrelationHandler wraps an slog.Handler and injects the owner and operation
// from the record's context.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps inner.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if v := Owner(ctx); v != "" {
		r.AddAttrs(slog.String("owner", v))
	}
	if v := Operation(ctx); v != "" {
		r.AddAttrs(slog.String("operation", v))
	}
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}

// NewLogger returns a text logger at level writing to w, with correlation
// injection and secret redaction.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	})
	return slog.New(NewCorrelationHandler(inner))
}

func redact(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	if strings.Contains(key, "passphrase") || strings.Contains(key, "secret") || strings.Contains(key, "password") {
		return slog.String(a.Key, Redacted)
	}
	return a
}
