package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// mockDirectory is an internal mock implementation of the Directory interface
type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *mockDirectory) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func createTestTenant(domain string, active bool) *tenant.Tenant {
	now := time.Now()
	return &tenant.Tenant{
		ID:            uuid.New(),
		Name:          domain,
		PrimaryDomain: domain,
		Active:        active,
		Settings:      map[string]any{"theme": "light"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func ptr(s string) *string { return &s }

func TestTenant_Hostnames(t *testing.T) {
	t.Parallel()

	t.Run("returns primary then custom, normalized", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("Acme.Platform.com.", true)
		tn.CustomDomain = ptr(" MAIL.acme.com ")

		assert.Equal(t, []string{"acme.platform.com", "mail.acme.com"}, tn.Hostnames())
	})

	t.Run("skips empty custom domain", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme.io", true)
		tn.CustomDomain = ptr("")

		assert.Equal(t, []string{"acme.io"}, tn.Hostnames())
	})

	t.Run("nil tenant has no hostnames", func(t *testing.T) {
		t.Parallel()

		var tn *tenant.Tenant
		assert.Nil(t, tn.Hostnames())
	})
}

func TestTenant_Clone(t *testing.T) {
	t.Parallel()

	tn := createTestTenant("acme.io", true)
	tn.CustomDomain = ptr("mail.acme.com")
	tn.Settings["features"] = []any{"sso", map[string]any{"name": "audit"}}

	c := tn.Clone()
	assert.Equal(t, tn, c)

	*c.CustomDomain = "other.com"
	c.Settings["theme"] = "dark"
	c.Settings["features"].([]any)[1].(map[string]any)["name"] = "billing"

	assert.Equal(t, "mail.acme.com", *tn.CustomDomain)
	assert.Equal(t, "light", tn.Settings["theme"])
	assert.Equal(t, "audit", tn.Settings["features"].([]any)[1].(map[string]any)["name"])

	var nilTenant *tenant.Tenant
	assert.Nil(t, nilTenant.Clone())
}
