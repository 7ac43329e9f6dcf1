// Package tenant binds every inbound request to exactly one tenant.
//
// # Architecture
//
// The package is built around three pieces:
//
//  1. Directory - the read path over tenant records (by hostname or id)
//  2. Resolver - maps a request's Host header, or an explicit id set by a trusted
//     proxy, to an active tenant and fails closed otherwise
//  3. Middleware - runs the resolver and stores the tenant in the request context
//
// Directory implementations shipped here are StaticDirectory (YAML fixtures, tests) and
// CachedDirectory (decorator over any Directory with an in-memory or Redis Cache). The
// Postgres directory lives in package pg.
//
// # Usage
//
//	dir := tenant.NewCachedDirectory(pg.NewDirectory(pool), tenant.NewInMemoryCache(), 5*time.Minute)
//	resolver := tenant.NewResolver(dir)
//
//	router.Use(tenant.Middleware(resolver, tenant.WithSkipPaths("/health")))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t := tenant.MustFromContext(r.Context())
//		// ...
//	}
//
// # Error Handling
//
// Resolution yields an active tenant or exactly one of:
//
//   - ErrNoTenantForRequest: no tenant claims the host (404)
//   - ErrTenantInactive: the tenant exists but is deactivated (403)
//   - ErrResolutionUnavailable: the directory failed; the request is unservable (503)
//
// Directories report absence with ErrTenantNotFound and failures with
// ErrDirectoryUnavailable. A failure is never treated as absence.
package tenant
