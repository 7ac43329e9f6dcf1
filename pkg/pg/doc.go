// Package pg is the PostgreSQL persistence layer for tenants, built on pgx/v5 and goose/v3.
//
// Connect opens a pool with startup retries and Migrate applies the embedded schema: the
// tenants table, a trigger keeping primary and custom hostnames in one unique namespace,
// and current_tenant_id(), which reads the app.current_tenant session setting.
//
// Directory implements tenant.Directory. Missing rows become tenant.ErrTenantNotFound and
// every other failure wraps tenant.ErrDirectoryUnavailable.
//
// Binder implements scope.Binder. Each tenant scope checks out a dedicated connection and
// sets app.current_tenant on it; leaving the scope resets the setting and returns the
// connection, or destroys it when the reset fails. Stores such as SettingsStore run on that
// connection through ConnFromContext:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
//	resolver := tenant.NewResolver(pg.NewDirectory(pool))
//	scopes := scope.New(pg.NewBinder(pool))
//	settings := pg.NewSettingsStore()
//
// Configuration is read from PG_* environment variables; see Config.
package pg
