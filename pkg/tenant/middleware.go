package tenant

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware resolves the tenant for every request and stores it in the request context.
// Requests that resolve to no tenant, an inactive tenant, or hit an unavailable directory
// never reach next.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			t, err := resolver.ResolveRequest(r)
			if err != nil {
				cfg.logger.DebugContext(r.Context(), "tenant resolution failed",
					slog.String("host", r.Host),
					slog.Any("error", err),
				)
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// RequireTenant ensures a tenant is present in the context.
// Use it on routes mounted behind a skip path that still need a tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
