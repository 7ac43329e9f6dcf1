package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

func TestAuthorize_Matrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role     rbac.Role
		required rbac.Role
		want     bool
	}{
		{rbac.Admin, rbac.Admin, true},
		{rbac.Admin, rbac.Editor, true},
		{rbac.Admin, rbac.Viewer, true},
		{rbac.Editor, rbac.Admin, false},
		{rbac.Editor, rbac.Editor, true},
		{rbac.Editor, rbac.Viewer, true},
		{rbac.Viewer, rbac.Admin, false},
		{rbac.Viewer, rbac.Editor, false},
		{rbac.Viewer, rbac.Viewer, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_requires_"+string(tt.required), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rbac.Authorize(tt.role, tt.required))
		})
	}
}

func TestAuthorize_UnknownRoles(t *testing.T) {
	t.Parallel()

	for _, role := range []rbac.Role{"", "owner", "ADMIN", "superadmin"} {
		for _, required := range rbac.Roles() {
			assert.False(t, rbac.Authorize(role, required), "%q must not satisfy %q", role, required)
		}
		assert.False(t, rbac.Authorize(rbac.Admin, role), "admin must not satisfy unknown %q", role)
	}
}

func TestDerivedPredicates(t *testing.T) {
	t.Parallel()

	for _, role := range append(rbac.Roles(), "bogus") {
		assert.Equal(t, rbac.Authorize(role, rbac.Admin), rbac.IsAdmin(role), role)
		assert.Equal(t, rbac.Authorize(role, rbac.Editor), rbac.IsEditor(role), role)
		assert.Equal(t, rbac.Authorize(role, rbac.Viewer), rbac.CanView(role), role)
	}

	assert.True(t, rbac.IsAdmin(rbac.Admin))
	assert.False(t, rbac.IsAdmin(rbac.Editor))
	assert.True(t, rbac.IsEditor(rbac.Admin))
	assert.False(t, rbac.IsEditor(rbac.Viewer))
	assert.True(t, rbac.CanView(rbac.Viewer))
	assert.False(t, rbac.CanView("bogus"))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    rbac.Role
		wantErr bool
	}{
		{in: "admin", want: rbac.Admin},
		{in: "editor", want: rbac.Editor},
		{in: "viewer", want: rbac.Viewer},
		{in: " editor ", wantErr: true},
		{in: "ADMIN", wantErr: true},
		{in: "Admin", wantErr: true},
		{in: "", wantErr: true},
		{in: "owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := rbac.ParseRole(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, rbac.ErrInvalidRole)
				assert.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
