package tenant

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultCacheTTL is how long a directory hit stays cached.
const DefaultCacheTTL = 5 * time.Minute

// CachedDirectory decorates a Directory with a Cache.
// Only successful lookups are cached; absence and unavailability always reach the
// underlying directory so a recovered store or a newly provisioned tenant is seen at once.
type CachedDirectory struct {
	next  Directory
	cache Cache
	ttl   time.Duration
}

// NewCachedDirectory wraps next with cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachedDirectory(next Directory, cache Cache, ttl time.Duration) *CachedDirectory {
	if cache == nil {
		cache = NoOpCache{}
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedDirectory{next: next, cache: cache, ttl: ttl}
}

// FindByDomain uses a cached hostname entry only to find the tenant id. The record itself
// always comes from the id entry, so dropping or replacing that one entry updates every
// hostname of the tenant.
func (d *CachedDirectory) FindByDomain(ctx context.Context, domain string) (*Tenant, error) {
	key := domainKey(domain)
	if hit, ok := d.cache.Get(ctx, key); ok {
		if t, ok := d.cache.Get(ctx, idKey(hit.ID)); ok && slices.Contains(t.Hostnames(), NormalizeHost(domain)) {
			return t, nil
		}
	}
	t, err := d.next.FindByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	d.cache.Set(ctx, idKey(t.ID), t, d.ttl)
	d.cache.Set(ctx, key, t, d.ttl)
	return t, nil
}

func (d *CachedDirectory) FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	key := idKey(id)
	if t, ok := d.cache.Get(ctx, key); ok {
		return t, nil
	}
	t, err := d.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Set(ctx, key, t, d.ttl)
	return t, nil
}

// SetActive applies the change to the underlying directory and drops the tenant from the
// cache. With a shared Redis cache every instance stops serving the old record at once;
// an instance with its own in-memory cache keeps it until the entry expires.
// It returns ErrReadOnlyDirectory when the underlying directory is not an Activator.
func (d *CachedDirectory) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	a, ok := d.next.(Activator)
	if !ok {
		return ErrReadOnlyDirectory
	}
	if err := a.SetActive(ctx, id, active); err != nil {
		return err
	}
	d.cache.Delete(ctx, idKey(id))
	return nil
}

// Invalidate drops every cached entry for the tenant, e.g. after deactivation or a settings update.
func (d *CachedDirectory) Invalidate(ctx context.Context, t *Tenant) {
	if t == nil {
		return
	}
	d.cache.Delete(ctx, idKey(t.ID))
	for _, host := range t.Hostnames() {
		d.cache.Delete(ctx, domainKey(host))
	}
}

func domainKey(domain string) string { return "domain:" + NormalizeHost(domain) }
func idKey(id uuid.UUID) string { return "id:" + id.String() }
