package guard

import (
	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonCrossTenant      Reason = "cross_tenant"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into its sentinel error. It returns nil for an allowing decision.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonCrossTenant:
		return ErrCrossTenant
	default:
		return ErrInsufficientRole
	}
}

// Check decides whether p may act with the required role inside tenant t.
//
// Checks run in a fixed order: a missing principal is unauthenticated; a principal
// affiliated with another tenant is denied regardless of role; a platform principal skips
// the affiliation check; the role check comes last. A missing tenant denies everyone.
func Check(t *tenant.Tenant, p *principal.Principal, required rbac.Role) Decision {
	if p == nil {
		return Deny(ReasonUnauthenticated)
	}
	if t == nil {
		return Deny(ReasonCrossTenant)
	}
	if !p.IsPlatform() && !p.BelongsTo(t.ID) {
		return Deny(ReasonCrossTenant)
	}
	if !p.Can(required) {
		return Deny(ReasonInsufficientRole)
	}
	return Allow()
}
