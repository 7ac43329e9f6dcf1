package rbac

import "errors"

// Domain errors for RBAC operations.
var (
	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("rbac.invalid_role")

	// ErrInsufficientPermissions is returned when the role ranks below the requirement.
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")

	// ErrInvalidPermission is returned for an empty or malformed permission name.
	ErrInvalidPermission = errors.New("rbac.invalid_permission")

	// ErrUnknownPermission is returned when no policy rule covers the permission.
	ErrUnknownPermission = errors.New("rbac.unknown_permission")
)
