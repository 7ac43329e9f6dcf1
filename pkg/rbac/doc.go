// Package rbac ranks the three tenant roles and decides whether a role satisfies a requirement.
//
// Roles form a closed, totally ordered set: viewer < editor < admin. A role satisfies a
// requirement when it ranks at or above it. Strings that are not one of the three roles
// never satisfy anything.
//
//	rbac.Authorize(rbac.Editor, rbac.Viewer) // true
//	rbac.Authorize(rbac.Viewer, rbac.Admin)  // false
//	rbac.IsEditor(rbac.Admin)                // true
//
// A Policy names permissions and maps each to the minimum role that holds it. Rules may
// use a trailing wildcard segment to cover a whole resource:
//
//	policy := rbac.MustPolicy(map[string]rbac.Role{
//	    "settings.read": rbac.Editor,
//	    "settings.*":    rbac.Admin,
//	    "profile.*":     rbac.Viewer,
//	})
//
//	if err := policy.Can(rbac.Editor, "settings.update"); err != nil {
//	    // errors.Is(err, rbac.ErrInsufficientPermissions)
//	}
package rbac
