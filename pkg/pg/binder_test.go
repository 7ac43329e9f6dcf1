package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

func acquirer(conn *fakeConn) pg.AcquireFunc {
	return func(context.Context) (pg.Conn, error) { return conn, nil }
}

func TestBinder_Lifecycle(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	binder := pg.NewBinderWithAcquirer(acquirer(conn))
	id := uuid.New()

	ctx, err := binder.SetCurrentTenant(context.Background(), id)
	require.NoError(t, err)

	got, ok := pg.ConnFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, conn, got)

	require.NoError(t, binder.ClearCurrentTenant(ctx))
	assert.True(t, conn.released)
	assert.False(t, conn.destroyed)

	require.Len(t, conn.calls, 2)
	assert.Equal(t, []any{pg.CurrentTenantSetting, id.String()}, conn.calls[0].args)
	assert.Equal(t, []any{pg.CurrentTenantSetting, ""}, conn.calls[1].args)
}

func TestBinder_Failures(t *testing.T) {
	t.Parallel()

	t.Run("acquire failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("pool closed")
		binder := pg.NewBinderWithAcquirer(func(context.Context) (pg.Conn, error) { return nil, cause })

		_, err := binder.SetCurrentTenant(context.Background(), uuid.New())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("set failure destroys connection", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{execErr: errors.New("set_config failed"), execFailOn: 1}
		binder := pg.NewBinderWithAcquirer(acquirer(conn))

		_, err := binder.SetCurrentTenant(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, conn.destroyed)
		assert.False(t, conn.released)
	})

	t.Run("clear failure destroys connection", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{execErr: errors.New("connection lost"), execFailOn: 2}
		binder := pg.NewBinderWithAcquirer(acquirer(conn))

		ctx, err := binder.SetCurrentTenant(context.Background(), uuid.New())
		require.NoError(t, err)

		require.Error(t, binder.ClearCurrentTenant(ctx))
		assert.True(t, conn.destroyed)
		assert.False(t, conn.released)
	})

	t.Run("clear without scope", func(t *testing.T) {
		t.Parallel()

		binder := pg.NewBinderWithAcquirer(acquirer(&fakeConn{}))
		assert.ErrorIs(t, binder.ClearCurrentTenant(context.Background()), pg.ErrNoScopedConnection)
	})
}

func TestBinder_WithScopeManager(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	scopes := scope.New(pg.NewBinderWithAcquirer(acquirer(conn)))
	opErr := errors.New("handler failed")

	err := scopes.WithTenant(context.Background(), uuid.New(), func(ctx context.Context) error {
		_, ok := pg.ConnFromContext(ctx)
		assert.True(t, ok)
		return opErr
	})
	assert.ErrorIs(t, err, opErr)
	assert.True(t, conn.released)
}

func TestSettingsStore(t *testing.T) {
	t.Parallel()

	t.Run("outside scope", func(t *testing.T) {
		t.Parallel()

		store := pg.NewSettingsStore()
		_, err := store.Settings(context.Background())
		assert.ErrorIs(t, err, scope.ErrNoScope)

		_, err = store.UpdateSettings(context.Background(), map[string]any{"a": 1})
		assert.ErrorIs(t, err, scope.ErrNoScope)
	})

	t.Run("reads and updates on the scope connection", func(t *testing.T) {
		t.Parallel()

		updated := sampleTenant()
		updated.Settings = map[string]any{"theme": "light"}
		conn := &fakeConn{rows: []pgx.Row{
			fakeRow{values: []any{[]byte(`{"theme":"dark"}`)}},
			tenantRow(updated),
		}}
		scopes := scope.New(pg.NewBinderWithAcquirer(acquirer(conn)))
		store := pg.NewSettingsStore()

		err := scopes.WithTenant(context.Background(), updated.ID, func(ctx context.Context) error {
			settings, err := store.Settings(ctx)
			require.NoError(t, err)
			assert.Equal(t, "dark", settings["theme"])

			got, err := store.UpdateSettings(ctx, map[string]any{"theme": "light"})
			require.NoError(t, err)
			assert.Equal(t, "light", got.Settings["theme"])
			return nil
		})
		require.NoError(t, err)

		// set_config, select, update, reset
		require.Len(t, conn.calls, 4)
		assert.Equal(t, []any{[]byte(`{"theme":"light"}`)}, conn.calls[2].args)
	})

	t.Run("bound tenant missing", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{rows: []pgx.Row{fakeRow{err: pgx.ErrNoRows}}}
		scopes := scope.New(pg.NewBinderWithAcquirer(acquirer(conn)))

		err := scopes.WithTenant(context.Background(), uuid.New(), func(ctx context.Context) error {
			_, err := pg.NewSettingsStore().UpdateSettings(ctx, nil)
			return err
		})
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}
