package guard

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// Identity yields the principal of a request.
type Identity interface {
	Current(r *http.Request) (*principal.Principal, error)
}

// Pipeline returns middleware that prepares every request for authorization.
//
// For each request it resolves the tenant, runs the rest of the chain inside a tenant
// scope, obtains the principal and stores both as a Request in the context. Requests that
// fail resolution never reach the identity source. Paths skipped by the tenant options pass
// through without a scope or a Request.
func Pipeline(resolver *tenant.Resolver, scopes *scope.Manager, identity Identity, opts ...Option) func(http.Handler) http.Handler {
	if resolver == nil || scopes == nil || identity == nil {
		panic("guard: resolver, scope manager and identity are required")
	}
	cfg := newConfig(opts)

	tenantOpts := append([]tenant.Option{
		tenant.WithErrorHandler(tenant.ErrorHandler(cfg.errorHandler)),
		tenant.WithLogger(cfg.logger),
	}, cfg.tenantOpts...)
	resolve := tenant.Middleware(resolver, tenantOpts...)

	return func(next http.Handler) http.Handler {
		bind := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, ok := tenant.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			served := false
			err := scopes.WithTenant(r.Context(), t.ID, func(ctx context.Context) error {
				r := r.WithContext(ctx)

				p, err := identity.Current(r)
				if err != nil {
					return err
				}

				ctx = principal.WithPrincipal(ctx, p)
				ctx = withRequest(ctx, &Request{tenant: t, principal: p})

				served = true
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if err == nil {
				return
			}

			if served {
				cfg.logger.ErrorContext(r.Context(), "tenant scope teardown failed",
					logger.TenantID(t.ID),
					logger.Error(err),
				)
				return
			}
			cfg.logger.ErrorContext(r.Context(), "request pipeline failed",
				logger.TenantID(t.ID),
				logger.Error(err),
			)
			cfg.errorHandler(w, r, err)
		})

		return resolve(bind)
	}
}
