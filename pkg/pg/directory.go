package pg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

const tenantColumns = `id, name, primary_domain, custom_domain, active, settings, created_at, updated_at`

const (
	findTenantByDomainSQL = `SELECT ` + tenantColumns + ` FROM tenants
WHERE lower(primary_domain) = $1 OR lower(custom_domain) = $1
ORDER BY lower(primary_domain) = $1 DESC
LIMIT 1`

	findTenantByIDSQL = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	insertTenantSQL = `INSERT INTO tenants (id, name, primary_domain, custom_domain, active, settings)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`

	setTenantActiveSQL = `UPDATE tenants SET active = $2, updated_at = now() WHERE id = $1`
)

// Directory is a tenant.Directory backed by the tenants table.
type Directory struct {
	db Querier
}

// NewDirectory creates a Directory over db.
func NewDirectory(db Querier) *Directory {
	if db == nil {
		panic("pg: directory querier cannot be nil")
	}
	return &Directory{db: db}
}

// FindByDomain implements tenant.Directory. The primary domain wins over a custom domain.
func (d *Directory) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	host := tenant.NormalizeHost(domain)
	if host == "" {
		return nil, tenant.ErrTenantNotFound
	}
	return classify(scanTenant(d.db.QueryRow(ctx, findTenantByDomainSQL, host)))
}

// FindByID implements tenant.Directory.
func (d *Directory) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if id == uuid.Nil {
		return nil, tenant.ErrTenantNotFound
	}
	return classify(scanTenant(d.db.QueryRow(ctx, findTenantByIDSQL, id)))
}

// Create inserts t. Hostnames already claimed by another tenant fail with tenant.ErrDomainConflict.
func (d *Directory) Create(ctx context.Context, t *tenant.Tenant) error {
	if t == nil || t.ID == uuid.Nil {
		return tenant.ErrInvalidIdentifier
	}

	settings := t.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	var custom *string
	if t.CustomDomain != nil {
		if c := tenant.NormalizeHost(*t.CustomDomain); c != "" {
			custom = &c
		}
	}

	err = d.db.QueryRow(ctx, insertTenantSQL,
		t.ID, t.Name, tenant.NormalizeHost(t.PrimaryDomain), custom, t.Active, raw,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case IsDuplicateKeyError(err):
		return errors.Join(tenant.ErrDomainConflict, err)
	default:
		return errors.Join(tenant.ErrDirectoryUnavailable, err)
	}
}

var (
	_ tenant.Directory = (*Directory)(nil)
	_ tenant.Activator = (*Directory)(nil)
)

// SetActive suspends or reactivates a tenant. Put a tenant.CachedDirectory in front and
// call its SetActive so cached lookups see the change.
func (d *Directory) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := d.db.Exec(ctx, setTenantActiveSQL, id, active)
	if err != nil {
		return errors.Join(tenant.ErrDirectoryUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// classify keeps absence and unavailability apart.
func classify(t *tenant.Tenant, err error) (*tenant.Tenant, error) {
	switch {
	case err == nil:
		return t, nil
	case IsNotFoundError(err):
		return nil, tenant.ErrTenantNotFound
	default:
		return nil, errors.Join(tenant.ErrDirectoryUnavailable, err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*tenant.Tenant, error) {
	var (
		t        tenant.Tenant
		settings []byte
		created  time.Time
		updated  time.Time
	)
	if err := row.Scan(&t.ID, &t.Name, &t.PrimaryDomain, &t.CustomDomain, &t.Active, &settings, &created, &updated); err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &t.Settings); err != nil {
			return nil, err
		}
	}
	t.CreatedAt, t.UpdatedAt = created, updated
	return &t, nil
}
