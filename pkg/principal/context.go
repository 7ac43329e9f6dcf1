package principal

import (
	"context"
	"log/slog"
)

type principalContextKey struct{}

// WithPrincipal adds a principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext retrieves the principal from the context.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// LoggerExtractor returns a function that enriches log records with the principal ID
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := FromContext(ctx); ok && p.ID != "" {
			return slog.String("principal_id", p.ID), true
		}
		return slog.Attr{}, false
	}
}
