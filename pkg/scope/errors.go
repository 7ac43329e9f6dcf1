package scope

import "errors"

var (
	// ErrNestedTenantMismatch is returned when a scope for one tenant is opened inside a
	// scope for another. It always indicates a coding defect.
	ErrNestedTenantMismatch = errors.New("scope.nested_tenant_mismatch")

	// ErrInvalidTenantID is returned when the zero tenant id is used to open a scope.
	ErrInvalidTenantID = errors.New("scope.invalid_tenant_id")

	// ErrBindFailed is returned when the binder could not apply the tenant.
	ErrBindFailed = errors.New("scope.bind_failed")

	// ErrUnbindFailed is returned when the binder could not clear the tenant.
	ErrUnbindFailed = errors.New("scope.unbind_failed")

	// ErrNoScope is returned by storage helpers called outside any tenant scope.
	ErrNoScope = errors.New("scope.no_active_scope")
)
