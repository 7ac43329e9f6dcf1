// Package guard decides whether the principal of a request may act within the tenant the
// request resolved to.
//
// Pipeline wires the request flow in a fixed order: tenant resolution, tenant scope,
// principal normalization. Gates then check the stored Request:
//
//	r := chi.NewRouter()
//	r.Use(guard.Pipeline(resolver, scopes, provider))
//	r.With(guard.Require(rbac.Viewer)).Get("/me", me)
//	r.With(guard.RequirePermission(policy, "settings.update")).Put("/settings", update)
//
// Check is the pure decision: a missing principal is unauthenticated, a principal from
// another tenant is denied before its role is considered, and the role check comes last.
// Denials are values; Decision.Err converts them to ErrUnauthenticated, ErrCrossTenant or
// ErrInsufficientRole.
package guard
