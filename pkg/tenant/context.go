package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// WithTenant records t as the tenant the request was resolved to.
// A nil tenant leaves ctx untouched.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tenant recorded by Middleware. Outside a resolved request,
// or on a skipped path, it reports false.
func FromContext(ctx context.Context) (*Tenant, bool) {
	t, _ := ctx.Value(contextKey{}).(*Tenant)
	return t, t != nil
}

// IDFromContext is FromContext reduced to the id, for rate-limit keys and log fields.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if t, ok := FromContext(ctx); ok {
		return t.ID, true
	}
	return uuid.Nil, false
}

// MustFromContext is FromContext for handlers mounted behind Middleware without skip paths.
// A missing tenant there is a routing bug, so it panics.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// LoggerExtractor adds "tenant_id" to records logged with a resolved request's context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := IDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("tenant_id", id.String()), true
	}
}
