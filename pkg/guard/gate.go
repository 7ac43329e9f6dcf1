package guard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

// Require returns middleware that admits only requests whose principal satisfies the
// required role within the resolved tenant. It must run behind Pipeline.
func Require(required rbac.Role, opts ...Option) func(http.Handler) http.Handler {
	if !required.Valid() {
		panic("guard: invalid required role " + string(required))
	}
	cfg := newConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorize(r.Context(), cfg.logger, required); err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission is like Require with the minimum role taken from policy.
// It panics if policy does not cover permission.
func RequirePermission(policy *rbac.Policy, permission string, opts ...Option) func(http.Handler) http.Handler {
	required, err := policy.Required(permission)
	if err != nil {
		panic("guard: " + err.Error())
	}
	return Require(required, opts...)
}

// Authorize checks the request carried by ctx against the required role.
// It returns nil when allowed, or one of the guard sentinel errors.
func Authorize(ctx context.Context, required rbac.Role) error {
	req, ok := FromContext(ctx)
	if !ok {
		return ErrNoRequest
	}
	return req.Check(required).Err()
}

func authorize(ctx context.Context, log *slog.Logger, required rbac.Role) error {
	req, ok := FromContext(ctx)
	if !ok {
		log.ErrorContext(ctx, "authorization gate used outside the pipeline")
		return ErrNoRequest
	}

	d := req.Check(required)
	if d.Allowed {
		return nil
	}

	attrs := []any{
		logger.TenantID(req.Tenant().ID),
		slog.String("required_role", string(required)),
		logger.Reason(string(d.Reason)),
	}
	if p := req.Principal(); p != nil {
		attrs = append(attrs, logger.PrincipalID(p.ID), logger.Role(string(p.Role)))
	}

	if d.Reason == ReasonCrossTenant {
		log.WarnContext(ctx, "cross-tenant access denied", attrs...)
	} else {
		log.InfoContext(ctx, "access denied", attrs...)
	}
	return d.Err()
}
