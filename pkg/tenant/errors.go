package tenant

import "errors"

var (
	// ErrTenantNotFound is returned by a Directory when no tenant matches.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDirectoryUnavailable is returned by a Directory when the lookup could not be performed.
	ErrDirectoryUnavailable = errors.New("tenant directory unavailable")

	// ErrReadOnlyDirectory is returned when a change is requested from a directory that cannot apply it.
	ErrReadOnlyDirectory = errors.New("tenant directory is read-only")

	// ErrDomainConflict is returned when two tenants claim the same hostname.
	ErrDomainConflict = errors.New("hostname already claimed by another tenant")

	// ErrInvalidIdentifier is returned when a tenant identifier is malformed.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantForRequest is returned when a request maps to no known tenant.
	ErrNoTenantForRequest = errors.New("no tenant for request")

	// ErrTenantInactive is returned when the request maps to a deactivated tenant.
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrResolutionUnavailable is returned when the directory failed during resolution.
	// The request must be treated as unservable.
	ErrResolutionUnavailable = errors.New("tenant resolution unavailable")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
