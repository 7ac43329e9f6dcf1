package scope_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/scope"
)

// sharedConn stands in for a pooled connection reused by consecutive units of work.
type sharedConn struct {
	mu      sync.Mutex
	current uuid.UUID
	sets    int
	clears  int
}

func (c *sharedConn) tenant() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

type connKey struct{}

type fakeBinder struct {
	conn     *sharedConn
	setErr   error
	clearErr error
}

func (b *fakeBinder) SetCurrentTenant(ctx context.Context, id uuid.UUID) (context.Context, error) {
	if b.setErr != nil {
		return ctx, b.setErr
	}
	b.conn.mu.Lock()
	b.conn.current = id
	b.conn.sets++
	b.conn.mu.Unlock()
	return context.WithValue(ctx, connKey{}, b.conn), nil
}

func (b *fakeBinder) ClearCurrentTenant(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, ok := ctx.Value(connKey{}).(*sharedConn)
	if !ok {
		return errors.New("clear called without connection scope")
	}
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.clears++
	if b.clearErr != nil {
		return b.clearErr
	}
	conn.current = uuid.Nil
	return nil
}

func newManager() (*scope.Manager, *sharedConn) {
	conn := &sharedConn{}
	return scope.New(&fakeBinder{conn: conn}), conn
}

func TestWithTenant_Binding(t *testing.T) {
	t.Parallel()

	t.Run("binds for the duration of the operation", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		id := uuid.New()

		err := m.WithTenant(context.Background(), id, func(ctx context.Context) error {
			got, ok := scope.Current(ctx)
			require.True(t, ok)
			assert.Equal(t, id, got)
			assert.Equal(t, id, conn.tenant())
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, uuid.Nil, conn.tenant())
		assert.Equal(t, 1, conn.sets)
		assert.Equal(t, 1, conn.clears)
	})

	t.Run("later unrelated work does not see the tenant", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		ctx := context.Background()

		require.NoError(t, m.WithTenant(ctx, uuid.New(), func(context.Context) error { return nil }))

		_, ok := scope.Current(ctx)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, conn.tenant())
	})

	t.Run("clears on error", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		opErr := errors.New("op failed")

		err := m.WithTenant(context.Background(), uuid.New(), func(context.Context) error { return opErr })
		assert.ErrorIs(t, err, opErr)
		assert.Equal(t, uuid.Nil, conn.tenant())
		assert.Equal(t, 1, conn.clears)
	})

	t.Run("clears on panic", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()

		assert.Panics(t, func() {
			_ = m.WithTenant(context.Background(), uuid.New(), func(context.Context) error { panic("boom") })
		})
		assert.Equal(t, uuid.Nil, conn.tenant())
		assert.Equal(t, 1, conn.clears)
	})

	t.Run("clears when cancelled mid-operation", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		ctx, cancel := context.WithCancel(context.Background())

		err := m.WithTenant(ctx, uuid.New(), func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, scope.ErrUnbindFailed)
		assert.Equal(t, uuid.Nil, conn.tenant())
		assert.Equal(t, 1, conn.clears)
	})

	t.Run("already cancelled context never binds", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := m.WithTenant(ctx, uuid.New(), func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
		assert.Equal(t, 0, conn.sets)
	})

	t.Run("rejects zero tenant id", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		err := m.WithTenant(context.Background(), uuid.Nil, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, scope.ErrInvalidTenantID)
		assert.Equal(t, 0, conn.sets)
	})
}

func TestWithTenant_Nesting(t *testing.T) {
	t.Parallel()

	t.Run("different tenant fails fast", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		outer, inner := uuid.New(), uuid.New()
		innerRan := false

		err := m.WithTenant(context.Background(), outer, func(ctx context.Context) error {
			err := m.WithTenant(ctx, inner, func(context.Context) error {
				innerRan = true
				return nil
			})
			require.ErrorIs(t, err, scope.ErrNestedTenantMismatch)

			got, _ := scope.Current(ctx)
			assert.Equal(t, outer, got)
			assert.Equal(t, outer, conn.tenant())
			return err
		})

		assert.ErrorIs(t, err, scope.ErrNestedTenantMismatch)
		assert.False(t, innerRan)
		assert.Equal(t, uuid.Nil, conn.tenant())
		assert.Equal(t, 1, conn.sets)
		assert.Equal(t, 1, conn.clears)
	})

	t.Run("same tenant reuses the binding", func(t *testing.T) {
		t.Parallel()

		m, conn := newManager()
		id := uuid.New()

		err := m.WithTenant(context.Background(), id, func(ctx context.Context) error {
			return m.WithTenant(ctx, id, func(ctx context.Context) error {
				assert.Equal(t, id, conn.tenant())
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, conn.sets)
		assert.Equal(t, 1, conn.clears)
	})
}

func TestWithTenant_BinderFailures(t *testing.T) {
	t.Parallel()

	t.Run("bind failure skips the operation", func(t *testing.T) {
		t.Parallel()

		conn := &sharedConn{}
		cause := errors.New("pool exhausted")
		m := scope.New(&fakeBinder{conn: conn, setErr: cause})

		called := false
		err := m.WithTenant(context.Background(), uuid.New(), func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, scope.ErrBindFailed)
		assert.ErrorIs(t, err, cause)
		assert.False(t, called)
		assert.Equal(t, 0, conn.clears)
	})

	t.Run("unbind failure is reported with the operation error", func(t *testing.T) {
		t.Parallel()

		conn := &sharedConn{}
		clearErr := errors.New("reset failed")
		opErr := errors.New("op failed")
		m := scope.New(&fakeBinder{conn: conn, clearErr: clearErr})

		err := m.WithTenant(context.Background(), uuid.New(), func(context.Context) error { return opErr })
		assert.ErrorIs(t, err, opErr)
		assert.ErrorIs(t, err, scope.ErrUnbindFailed)
		assert.ErrorIs(t, err, clearErr)
	})
}

func TestDo(t *testing.T) {
	t.Parallel()

	m, _ := newManager()
	id := uuid.New()

	got, err := scope.Do(context.Background(), m, id, func(ctx context.Context) (string, error) {
		bound, _ := scope.Current(ctx)
		return bound.String(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)
}

func TestWithTenant_ConcurrentUnitsAreIsolated(t *testing.T) {
	t.Parallel()

	m := scope.New(nil)
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.New()
			err := m.WithTenant(context.Background(), id, func(ctx context.Context) error {
				time.Sleep(time.Millisecond)
				got, ok := scope.Current(ctx)
				if !ok || got != id {
					return errors.New("observed foreign binding")
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
