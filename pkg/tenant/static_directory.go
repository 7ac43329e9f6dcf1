package tenant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// StaticDirectory is an in-memory Directory, used for development and tests.
// Its hostnames are fixed at construction; only the active flag can change.
type StaticDirectory struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*Tenant
	byPrimary map[string]*Tenant
	byCustom  map[string]*Tenant
}

// NewStaticDirectory builds a directory from the given tenants.
// It rejects duplicate ids and any hostname claimed twice across primary and custom domains.
func NewStaticDirectory(tenants ...*Tenant) (*StaticDirectory, error) {
	d := &StaticDirectory{
		byID:      make(map[uuid.UUID]*Tenant, len(tenants)),
		byPrimary: make(map[string]*Tenant, len(tenants)),
		byCustom:  make(map[string]*Tenant),
	}
	claimed := make(map[string]uuid.UUID)

	for _, t := range tenants {
		if t == nil {
			continue
		}
		if t.ID == uuid.Nil {
			return nil, fmt.Errorf("%w: empty id for %q", ErrInvalidIdentifier, t.PrimaryDomain)
		}
		if _, dup := d.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidIdentifier, t.ID)
		}
		primary := NormalizeHost(t.PrimaryDomain)
		if primary == "" {
			return nil, fmt.Errorf("%w: tenant %s has no primary domain", ErrInvalidIdentifier, t.ID)
		}
		for _, host := range t.Hostnames() {
			if owner, taken := claimed[host]; taken {
				return nil, fmt.Errorf("%w: %s (tenants %s and %s)", ErrDomainConflict, host, owner, t.ID)
			}
			claimed[host] = t.ID
		}

		d.put(t.Clone())
	}
	return d, nil
}

func (d *StaticDirectory) put(t *Tenant) {
	d.byID[t.ID] = t
	d.byPrimary[NormalizeHost(t.PrimaryDomain)] = t
	if t.CustomDomain != nil {
		if custom := NormalizeHost(*t.CustomDomain); custom != "" {
			d.byCustom[custom] = t
		}
	}
}

// LoadStaticDirectory reads a YAML document with a top-level "tenants" list.
//
//	tenants:
//	  - id: 6f1c...
//	    name: Acme
//	    primary_domain: acme.platform.com
//	    custom_domain: mail.acme.com
//	    active: true
func LoadStaticDirectory(r io.Reader) (*StaticDirectory, error) {
	var doc struct {
		Tenants []*Tenant `yaml:"tenants"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode tenants: %w", err)
	}
	return NewStaticDirectory(doc.Tenants...)
}

func (d *StaticDirectory) FindByDomain(_ context.Context, domain string) (*Tenant, error) {
	host := NormalizeHost(domain)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.byPrimary[host]; ok {
		return t.Clone(), nil
	}
	if t, ok := d.byCustom[host]; ok {
		return t.Clone(), nil
	}
	return nil, ErrTenantNotFound
}

func (d *StaticDirectory) FindByID(_ context.Context, id uuid.UUID) (*Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.byID[id]; ok {
		return t.Clone(), nil
	}
	return nil, ErrTenantNotFound
}

// SetActive suspends or reactivates a tenant.
func (d *StaticDirectory) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.byID[id]
	if !ok {
		return ErrTenantNotFound
	}
	updated := t.Clone()
	updated.Active = active
	updated.UpdatedAt = time.Now().UTC()
	d.put(updated)
	return nil
}

// Len returns the number of tenants in the directory.
func (d *StaticDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
