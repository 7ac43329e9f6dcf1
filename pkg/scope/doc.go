// Package scope binds a resolved tenant to one unit of work.
//
// A scope is carried by the context passed to the operation, never by process-wide state,
// so concurrent requests cannot observe each other's tenant. Entering a scope asks the
// persistence Binder to set the current tenant on a dedicated connection; leaving it always
// asks the Binder to clear it, including on error, panic and cancellation.
//
//	scopes := scope.New(pg.NewBinder(pool))
//
//	err := scopes.WithTenant(ctx, t.ID, func(ctx context.Context) error {
//		id, _ := scope.Current(ctx) // == t.ID
//		return store.UpdateSettings(ctx, settings)
//	})
//
// Opening a scope for a different tenant inside an active one fails with
// ErrNestedTenantMismatch rather than overriding the binding.
package scope
