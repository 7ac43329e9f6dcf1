package guard

import "errors"

var (
	// ErrUnauthenticated is returned when the request carries no principal.
	ErrUnauthenticated = errors.New("guard.unauthenticated")

	// ErrCrossTenant is returned when the principal belongs to a different tenant than the
	// one the request resolved to.
	ErrCrossTenant = errors.New("guard.cross_tenant")

	// ErrInsufficientRole is returned when the principal's role ranks below the requirement.
	ErrInsufficientRole = errors.New("guard.insufficient_role")

	// ErrNoRequest is returned when a gate runs outside the pipeline.
	ErrNoRequest = errors.New("guard.no_request_in_context")
)
