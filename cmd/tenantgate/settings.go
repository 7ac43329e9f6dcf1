package main

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// settingsStore reads and writes the settings of the tenant bound to the current scope.
type settingsStore interface {
	Settings(ctx context.Context) (map[string]any, error)
	UpdateSettings(ctx context.Context, settings map[string]any) (*tenant.Tenant, error)
}

// memorySettings backs settings with the static directory's tenants.
type memorySettings struct {
	dir tenant.Directory
	mu  sync.Mutex
	byT map[uuid.UUID]map[string]any
}

func newMemorySettings(dir tenant.Directory) *memorySettings {
	return &memorySettings{dir: dir, byT: make(map[uuid.UUID]map[string]any)}
}

func (s *memorySettings) Settings(ctx context.Context) (map[string]any, error) {
	t, err := s.bound(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.byT[t.ID]; ok {
		return maps.Clone(v), nil
	}
	if t.Settings == nil {
		return map[string]any{}, nil
	}
	return maps.Clone(t.Settings), nil
}

func (s *memorySettings) UpdateSettings(ctx context.Context, settings map[string]any) (*tenant.Tenant, error) {
	t, err := s.bound(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = map[string]any{}
	}

	s.mu.Lock()
	s.byT[t.ID] = maps.Clone(settings)
	s.mu.Unlock()

	updated := *t
	updated.Settings = maps.Clone(settings)
	updated.UpdatedAt = time.Now().UTC()
	return &updated, nil
}

func (s *memorySettings) bound(ctx context.Context) (*tenant.Tenant, error) {
	id, ok := scope.Current(ctx)
	if !ok {
		return nil, scope.ErrNoScope
	}
	return s.dir.FindByID(ctx, id)
}
