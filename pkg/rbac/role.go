package rbac

// Role is a principal's role within its tenant. The set of roles is closed.
type Role string

const (
	Admin  Role = "admin"
	Editor Role = "editor"
	Viewer Role = "viewer"
)

// Roles returns all known roles, highest rank first.
func Roles() []Role {
	return []Role{Admin, Editor, Viewer}
}

// ParseRole converts a raw role name into a Role.
// Only the exact lower-case names match; "Admin" or " admin" is not a role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.rank() > 0
}

func (r Role) String() string {
	return string(r)
}

// rank orders the roles: viewer < editor < admin. Unknown roles rank 0.
func (r Role) rank() int {
	switch r {
	case Viewer:
		return 1
	case Editor:
		return 2
	case Admin:
		return 3
	default:
		return 0
	}
}

// Authorize reports whether role satisfies the required role.
// A role outside the known set never satisfies anything, and nothing satisfies an unknown requirement.
func Authorize(role, required Role) bool {
	if !role.Valid() || !required.Valid() {
		return false
	}
	return role.rank() >= required.rank()
}

// IsAdmin reports whether role grants admin access.
func IsAdmin(role Role) bool { return Authorize(role, Admin) }

// IsEditor reports whether role grants at least editor access.
func IsEditor(role Role) bool { return Authorize(role, Editor) }

// CanView reports whether role grants at least viewer access.
func CanView(role Role) bool { return Authorize(role, Viewer) }
