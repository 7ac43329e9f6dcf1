package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tenant is one isolated customer organization.
// PrimaryDomain and CustomDomain share a single hostname namespace across all tenants.
type Tenant struct {
	ID            uuid.UUID      `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	PrimaryDomain string         `json:"primary_domain" yaml:"primary_domain"`
	CustomDomain  *string        `json:"custom_domain,omitempty" yaml:"custom_domain,omitempty"`
	Active        bool           `json:"active" yaml:"active"`
	Settings      map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"updated_at,omitempty"`
}

// Hostnames returns the normalized hostnames the tenant claims, primary first.
func (t *Tenant) Hostnames() []string {
	if t == nil {
		return nil
	}
	hosts := make([]string, 0, 2)
	if h := NormalizeHost(t.PrimaryDomain); h != "" {
		hosts = append(hosts, h)
	}
	if t.CustomDomain != nil {
		if h := NormalizeHost(*t.CustomDomain); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Clone returns a deep copy of t. Nested maps and slices in Settings are copied too.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.CustomDomain != nil {
		domain := *t.CustomDomain
		c.CustomDomain = &domain
	}
	if t.Settings != nil {
		c.Settings = cloneSettings(t.Settings)
	}
	return &c
}

func cloneSettings(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneSettings(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Directory is the read path over tenant records.
//
// Implementations must return ErrTenantNotFound when no record matches and an error
// wrapping ErrDirectoryUnavailable when the lookup itself failed. The two are never
// interchangeable: the resolver fails closed on the first and fails hard on the second.
// Every returned *Tenant belongs to the caller and shares no memory with the directory.
type Directory interface {
	// FindByDomain looks a tenant up by hostname, case-insensitively.
	// The primary domain is matched before the custom domain.
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindByID looks a tenant up by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

// Activator suspends and reactivates tenants.
type Activator interface {
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// NormalizeHost lower-cases a hostname and drops surrounding whitespace and a trailing dot.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimSuffix(host, ".")
	return strings.ToLower(host)
}
