package pg

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CurrentTenantSetting is the session setting read by current_tenant_id().
const CurrentTenantSetting = "app.current_tenant"

const setCurrentTenantSQL = `SELECT set_config($1, $2, false)`

// Conn is a connection held for the duration of one tenant scope.
type Conn interface {
	Querier
	// Release returns the connection to the pool.
	Release()
	// Destroy closes the connection so it never returns to the pool.
	Destroy(ctx context.Context) error
}

// AcquireFunc checks a connection out for one tenant scope.
type AcquireFunc func(ctx context.Context) (Conn, error)

type poolConn struct {
	*pgxpool.Conn
}

func (c poolConn) Destroy(ctx context.Context) error {
	return c.Hijack().Close(ctx)
}

// PoolAcquirer acquires scope connections from pool.
func PoolAcquirer(pool *pgxpool.Pool) AcquireFunc {
	return func(ctx context.Context) (Conn, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return poolConn{conn}, nil
	}
}

type connContextKey struct{}

// ConnFromContext returns the connection bound to the current tenant scope.
func ConnFromContext(ctx context.Context) (Conn, bool) {
	c, ok := ctx.Value(connContextKey{}).(Conn)
	return c, ok && c != nil
}

// Binder implements scope.Binder on dedicated pooled connections.
//
// Each scope checks out its own connection and sets app.current_tenant on it. Clearing
// resets the setting and releases the connection; if the reset fails, the connection is
// destroyed so the binding can never leak to another unit of work.
type Binder struct {
	acquire AcquireFunc
	logger  *slog.Logger
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithBinderLogger sets the logger used to report connection teardown.
func WithBinderLogger(logger *slog.Logger) BinderOption {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBinder creates a Binder over pool.
func NewBinder(pool *pgxpool.Pool, opts ...BinderOption) *Binder {
	return NewBinderWithAcquirer(PoolAcquirer(pool), opts...)
}

// NewBinderWithAcquirer creates a Binder that takes connections from acquire.
func NewBinderWithAcquirer(acquire AcquireFunc, opts ...BinderOption) *Binder {
	if acquire == nil {
		panic("pg: acquire function cannot be nil")
	}
	b := &Binder{
		acquire: acquire,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetCurrentTenant implements scope.Binder.
func (b *Binder) SetCurrentTenant(ctx context.Context, tenantID uuid.UUID) (context.Context, error) {
	conn, err := b.acquire(ctx)
	if err != nil {
		return ctx, err
	}

	if _, err := conn.Exec(ctx, setCurrentTenantSQL, CurrentTenantSetting, tenantID.String()); err != nil {
		b.destroy(ctx, conn, err)
		return ctx, err
	}

	return context.WithValue(ctx, connContextKey{}, conn), nil
}

// ClearCurrentTenant implements scope.Binder.
func (b *Binder) ClearCurrentTenant(ctx context.Context) error {
	conn, ok := ConnFromContext(ctx)
	if !ok {
		return ErrNoScopedConnection
	}

	if _, err := conn.Exec(ctx, setCurrentTenantSQL, CurrentTenantSetting, ""); err != nil {
		b.destroy(ctx, conn, err)
		return err
	}

	conn.Release()
	return nil
}

func (b *Binder) destroy(ctx context.Context, conn Conn, cause error) {
	b.logger.WarnContext(ctx, "destroying connection with unknown tenant binding", slog.Any("error", cause))
	if err := conn.Destroy(ctx); err != nil {
		b.logger.ErrorContext(ctx, "failed to close connection", slog.Any("error", errors.Join(cause, err)))
	}
}
