package pg

import (
	"context"
	"encoding/json"

	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

const (
	selectSettingsSQL = `SELECT settings FROM tenants WHERE id = current_tenant_id()`

	updateSettingsSQL = `UPDATE tenants SET settings = $1, updated_at = now()
WHERE id = current_tenant_id()
RETURNING ` + tenantColumns
)

// SettingsStore reads and writes the settings of the tenant bound to the current scope.
// Every statement runs on the scope connection and is filtered by current_tenant_id(),
// so a store call can only ever touch the bound tenant.
type SettingsStore struct{}

// NewSettingsStore creates a SettingsStore.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// Settings returns the bound tenant's settings.
func (s *SettingsStore) Settings(ctx context.Context) (map[string]any, error) {
	conn, err := scopedConn(ctx)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := conn.QueryRow(ctx, selectSettingsSQL).Scan(&raw); err != nil {
		if IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, err
	}

	settings := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

// UpdateSettings replaces the bound tenant's settings and returns the updated tenant.
func (s *SettingsStore) UpdateSettings(ctx context.Context, settings map[string]any) (*tenant.Tenant, error) {
	conn, err := scopedConn(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	t, err := scanTenant(conn.QueryRow(ctx, updateSettingsSQL, raw))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

func scopedConn(ctx context.Context) (Conn, error) {
	if _, ok := scope.Current(ctx); !ok {
		return nil, scope.ErrNoScope
	}
	conn, ok := ConnFromContext(ctx)
	if !ok {
		return nil, ErrNoScopedConnection
	}
	return conn, nil
}
