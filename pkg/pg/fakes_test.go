package pg_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// fakeRow copies values into Scan destinations by reflection.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func tenantRow(t *tenant.Tenant) fakeRow {
	settings, _ := json.Marshal(t.Settings)
	return fakeRow{values: []any{
		t.ID, t.Name, t.PrimaryDomain, t.CustomDomain, t.Active, settings, t.CreatedAt, t.UpdatedAt,
	}}
}

type call struct {
	sql  string
	args []any
}

// fakeConn records statements and answers with queued rows.
type fakeConn struct {
	mu         sync.Mutex
	calls      []call
	rows       []pgx.Row
	execErr    error
	execTag    pgconn.CommandTag
	execFailOn int
	released   bool
	destroyed  bool
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call{sql: sql, args: args})
	if c.execErr != nil && (c.execFailOn == 0 || c.execFailOn == len(c.calls)) {
		return pgconn.CommandTag{}, c.execErr
	}
	return c.execTag, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call{sql: sql, args: args})
	if len(c.rows) == 0 {
		return fakeRow{err: errors.New("fake: no row queued")}
	}
	row := c.rows[0]
	c.rows = c.rows[1:]
	return row
}

func (c *fakeConn) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
}

func (c *fakeConn) Destroy(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	return nil
}

func sampleTenant() *tenant.Tenant {
	custom := "mail.acme.com"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &tenant.Tenant{
		ID:            uuid.New(),
		Name:          "Acme",
		PrimaryDomain: "acme.platform.com",
		CustomDomain:  &custom,
		Active:        true,
		Settings:      map[string]any{"theme": "dark"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
