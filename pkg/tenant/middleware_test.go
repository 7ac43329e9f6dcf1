package tenant_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	acme := createTestTenant("acme.io", true)
	suspended := createTestTenant("suspended.io", false)
	dir, err := tenant.NewStaticDirectory(acme, suspended)
	require.NoError(t, err)

	t.Run("adds tenant to context when found", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(dir))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, acme.ID, got.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "http://acme.io/test", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name   string
		host   string
		status int
		body   string
	}{
		{"unknown domain", "nope.io", http.StatusNotFound, "Domain not recognized"},
		{"inactive tenant", "suspended.io", http.StatusForbidden, "Tenant is suspended"},
		{"empty host", "", http.StatusNotFound, "Domain not recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := tenant.Middleware(tenant.NewResolver(dir))
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}

	t.Run("unavailable directory answers 503", func(t *testing.T) {
		t.Parallel()

		down := new(mockDirectory)
		down.On("FindByDomain", mock.Anything, "acme.io").Return(nil, tenant.ErrDirectoryUnavailable)

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		mw := tenant.Middleware(
			tenant.NewResolver(down, tenant.WithResolverLogger(log)),
			tenant.WithLogger(log),
		)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "http://acme.io/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, buf.String(), "tenant directory lookup failed")
	})

	t.Run("skips configured paths", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(dir), tenant.WithSkipPaths("/health"))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest("GET", "http://unknown.io/health/live", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("custom error handler receives typed error", func(t *testing.T) {
		t.Parallel()

		var got error
		mw := tenant.Middleware(tenant.NewResolver(dir), tenant.WithErrorHandler(
			func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusTeapot)
			},
		))
		handler := mw(http.NotFoundHandler())

		req := httptest.NewRequest("GET", "http://suspended.io/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, got, tenant.ErrTenantInactive)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(tenant.WithTenant(req.Context(), createTestTenant("acme.io", true)))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, tenant.StatusCode(tenant.ErrNoTenantForRequest))
	assert.Equal(t, http.StatusForbidden, tenant.StatusCode(tenant.ErrTenantInactive))
	assert.Equal(t, http.StatusServiceUnavailable,
		tenant.StatusCode(errors.Join(tenant.ErrResolutionUnavailable, context.Canceled)))
	assert.Equal(t, http.StatusInternalServerError, tenant.StatusCode(errors.New("boom")))
}
