package scope

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Binder is the persistence collaborator that applies the current tenant to a connection.
//
// SetCurrentTenant returns a context carrying whatever connection scope the binding lives
// on; storage calls made with that context use it. ClearCurrentTenant receives that same
// context and must leave no binding behind on the underlying connection.
type Binder interface {
	SetCurrentTenant(ctx context.Context, tenantID uuid.UUID) (context.Context, error)
	ClearCurrentTenant(ctx context.Context) error
}

type bindingKey struct{}

// Current returns the tenant bound to the unit of work carried by ctx.
func Current(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(bindingKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Manager activates tenant scopes.
type Manager struct {
	binder Binder
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report binding failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager. A nil binder binds the tenant to the context only.
func New(binder Binder, opts ...Option) *Manager {
	m := &Manager{
		binder: binder,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithTenant runs op with tenantID bound for its whole duration.
// See Do for the binding rules.
func (m *Manager) WithTenant(ctx context.Context, tenantID uuid.UUID, op func(ctx context.Context) error) error {
	_, err := Do(ctx, m, tenantID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do runs op with tenantID bound and returns op's result.
//
// The binding is cleared when op returns, fails, panics or its context is cancelled.
// Re-entering with the tenant already bound reuses the active binding; re-entering with a
// different tenant fails with ErrNestedTenantMismatch before op runs.
func Do[T any](ctx context.Context, m *Manager, tenantID uuid.UUID, op func(ctx context.Context) (T, error)) (result T, err error) {
	if tenantID == uuid.Nil {
		return result, ErrInvalidTenantID
	}

	if active, ok := Current(ctx); ok {
		if active != tenantID {
			m.logger.ErrorContext(ctx, "nested tenant scope mismatch",
				slog.String("active_tenant_id", active.String()),
				slog.String("requested_tenant_id", tenantID.String()),
			)
			return result, fmt.Errorf("%w: active %s, requested %s", ErrNestedTenantMismatch, active, tenantID)
		}
		return op(ctx)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	scoped := ctx
	if m.binder != nil {
		scoped, err = m.binder.SetCurrentTenant(ctx, tenantID)
		if err != nil {
			return result, errors.Join(ErrBindFailed, err)
		}
	}
	scoped = context.WithValue(scoped, bindingKey{}, tenantID)

	defer func() {
		if m.binder == nil {
			return
		}
		if cerr := m.binder.ClearCurrentTenant(context.WithoutCancel(scoped)); cerr != nil {
			m.logger.ErrorContext(ctx, "failed to clear tenant binding",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", cerr),
			)
			err = errors.Join(err, ErrUnbindFailed, cerr)
		}
	}()

	return op(scoped)
}
