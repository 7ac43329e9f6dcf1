package principal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

func staticSource(raw map[string]any, err error) principal.Source {
	return principal.SourceFunc(func(context.Context, *http.Request) (map[string]any, error) {
		return raw, err
	})
}

func TestProvider_Current(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("anonymous request", func(t *testing.T) {
		t.Parallel()

		p, err := principal.NewProvider(staticSource(nil, nil)).Current(req)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("normalizes record", func(t *testing.T) {
		t.Parallel()

		p, err := principal.NewProvider(staticSource(map[string]any{"id": "u1", "role": "admin"}, nil)).Current(req)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, rbac.Admin, p.Role)
	})

	t.Run("inactive principal is anonymous", func(t *testing.T) {
		t.Parallel()

		p, err := principal.NewProvider(staticSource(map[string]any{"id": "u1", "active": false}, nil)).Current(req)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		p, err := principal.NewProvider(staticSource(nil, cause)).Current(req)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, principal.ErrSourceUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil source panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { principal.NewProvider(nil) })
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("first record wins", func(t *testing.T) {
		t.Parallel()

		called := false
		chain := principal.Chain(
			staticSource(nil, nil),
			staticSource(map[string]any{"id": "second"}, nil),
			principal.SourceFunc(func(context.Context, *http.Request) (map[string]any, error) {
				called = true
				return map[string]any{"id": "third"}, nil
			}),
		)

		raw, err := chain.UpstreamUser(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "second", raw["id"])
		assert.False(t, called)
	})

	t.Run("error stops the chain", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("boom")
		raw, err := principal.Chain(staticSource(nil, cause), staticSource(map[string]any{"id": "x"}, nil)).
			UpstreamUser(context.Background(), req)
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, raw)
	})

	t.Run("empty chain is anonymous", func(t *testing.T) {
		t.Parallel()

		raw, err := principal.Chain().UpstreamUser(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, raw)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := principal.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = principal.FromContext(principal.WithPrincipal(context.Background(), nil))
	assert.False(t, ok)

	p := &principal.Principal{ID: "u1"}
	ctx := principal.WithPrincipal(context.Background(), p)
	got, ok := principal.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, p, got)

	attr, ok := principal.LoggerExtractor()(ctx)
	require.True(t, ok)
	assert.Equal(t, "principal_id", attr.Key)
	assert.Equal(t, "u1", attr.Value.String())
}
