package principal

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

// Keys read from an upstream user record.
const (
	KeyID       = "id"
	KeySubject  = "sub"
	KeyEmail    = "email"
	KeyRole     = "role"
	KeyTenantID = "tenant_id"
	KeyActive   = "active"
)

// Principal is the authenticated actor of a request.
type Principal struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
	// TenantID is nil for platform principals that belong to no tenant.
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Active   bool       `json:"active"`
}

// Normalize converts a loosely typed upstream user record into a Principal.
//
// It never fails. A role that is not exactly one of the known names becomes viewer, so
// "ADMIN" or " admin" grants nothing. A missing or empty tenant id means no affiliation; a tenant id that cannot be parsed is kept as the zero uuid so the
// principal still counts as tenant-affiliated and matches no real tenant. A missing active
// flag means active; a present non-boolean one means inactive.
func Normalize(raw map[string]any) Principal {
	p := Principal{
		ID:     stringValue(raw[KeyID]),
		Email:  strings.ToLower(strings.TrimSpace(stringValue(raw[KeyEmail]))),
		Role:   rbac.Viewer,
		Active: true,
	}

	if p.ID == "" {
		p.ID = stringValue(raw[KeySubject])
	}

	switch v := raw[KeyRole].(type) {
	case string:
		if role, err := rbac.ParseRole(v); err == nil {
			p.Role = role
		}
	case rbac.Role:
		if v.Valid() {
			p.Role = v
		}
	}

	p.TenantID = tenantValue(raw[KeyTenantID])

	if v, ok := raw[KeyActive]; ok {
		active, isBool := v.(bool)
		p.Active = isBool && active
	}

	return p
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case rbac.Role:
		return string(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uuid.UUID:
		return s.String()
	default:
		return ""
	}
}

func tenantValue(v any) *uuid.UUID {
	switch t := v.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return &t
	case *uuid.UUID:
		if t == nil {
			return nil
		}
		id := *t
		return &id
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil {
			id = uuid.Nil
		}
		return &id
	default:
		id := uuid.Nil
		return &id
	}
}

// IsPlatform reports whether p is not affiliated with any tenant.
func (p *Principal) IsPlatform() bool {
	return p != nil && p.TenantID == nil
}

// BelongsTo reports whether p is affiliated with tenantID.
func (p *Principal) BelongsTo(tenantID uuid.UUID) bool {
	return p != nil && p.TenantID != nil && *p.TenantID != uuid.Nil && *p.TenantID == tenantID
}

// Can reports whether p satisfies the required role. A nil principal satisfies nothing.
func (p *Principal) Can(required rbac.Role) bool {
	if p == nil {
		return false
	}
	return rbac.Authorize(p.Role, required)
}

func (p *Principal) IsAdmin() bool  { return p.Can(rbac.Admin) }
func (p *Principal) IsEditor() bool { return p.Can(rbac.Editor) }
func (p *Principal) CanView() bool  { return p.Can(rbac.Viewer) }
