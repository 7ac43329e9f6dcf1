package rbac

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// PermissionWildcard matches every permission, or every permission under a prefix
	// when used as the last segment ("billing.*").
	PermissionWildcard = "*"

	// PermissionDelimiter separates permission segments.
	PermissionDelimiter = "."
)

// Policy maps permission names to the minimum role that holds them.
// A Policy is immutable once built and safe for concurrent use.
type Policy struct {
	exact    map[string]Role
	prefixes map[string]Role
}

// NewPolicy builds a Policy from permission rules.
//
// Keys are exact names ("settings.update"), prefix wildcards ("settings.*") or the
// global wildcard ("*"). Exact rules take precedence, then the longest matching prefix.
func NewPolicy(rules map[string]Role) (*Policy, error) {
	p := &Policy{
		exact:    make(map[string]Role, len(rules)),
		prefixes: make(map[string]Role),
	}

	for perm, role := range rules {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q for permission %q", ErrInvalidRole, role, perm)
		}

		perm = strings.TrimSpace(perm)
		switch {
		case perm == "":
			return nil, ErrInvalidPermission
		case perm == PermissionWildcard:
			p.prefixes[""] = role
		case strings.HasSuffix(perm, PermissionDelimiter+PermissionWildcard):
			prefix := strings.TrimSuffix(perm, PermissionWildcard)
			if strings.Contains(prefix, PermissionWildcard) || prefix == PermissionDelimiter {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, perm)
			}
			p.prefixes[prefix] = role
		case strings.Contains(perm, PermissionWildcard):
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, perm)
		default:
			p.exact[perm] = role
		}
	}

	return p, nil
}

// MustPolicy is like NewPolicy but panics on invalid rules.
func MustPolicy(rules map[string]Role) *Policy {
	p, err := NewPolicy(rules)
	if err != nil {
		panic(err)
	}
	return p
}

// Required returns the minimum role needed for permission.
func (p *Policy) Required(permission string) (Role, error) {
	permission = strings.TrimSpace(permission)
	if permission == "" || strings.Contains(permission, PermissionWildcard) {
		return "", ErrInvalidPermission
	}

	if role, ok := p.exact[permission]; ok {
		return role, nil
	}

	best, found := "", false
	for prefix := range p.prefixes {
		if strings.HasPrefix(permission, prefix) && (!found || len(prefix) > len(best)) {
			best, found = prefix, true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, permission)
	}
	return p.prefixes[best], nil
}

// Can returns nil when role holds permission.
func (p *Policy) Can(role Role, permission string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	required, err := p.Required(permission)
	if err != nil {
		return err
	}

	if !Authorize(role, required) {
		return ErrInsufficientPermissions
	}
	return nil
}

// Permissions returns the configured rule keys in sorted order.
func (p *Policy) Permissions() []string {
	out := make([]string, 0, len(p.exact)+len(p.prefixes))
	for perm := range p.exact {
		out = append(out, perm)
	}
	for prefix := range p.prefixes {
		out = append(out, prefix+PermissionWildcard)
	}
	slices.Sort(out)
	return out
}
