package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantgate/pkg/config"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/redis"
	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// permissions maps the routes' permissions to the minimum role they need.
var permissions = rbac.MustPolicy(map[string]rbac.Role{
	"profile.*":       rbac.Viewer,
	"settings.read":   rbac.Editor,
	"settings.*":      rbac.Admin,
	"tenant.activate": rbac.Admin,
})

// deps is everything the router needs.
type deps struct {
	log        *slog.Logger
	resolver   *tenant.Resolver
	scopes     *scope.Manager
	identity   *principal.Provider
	settings   settingsStore
	tenants    tenant.Activator
	invalidate func(ctx context.Context, t *tenant.Tenant)
	checks     []httpserver.Check
	rateLimit  rateLimit
	hooks      []shutdownHook
}

type shutdownHook struct {
	name string
	fn   func(context.Context) error
}

// buildDeps connects the backing stores selected by cfg. On error every opened
// resource is closed before returning.
func buildDeps(ctx context.Context, cfg appConfig, log *slog.Logger) (_ *deps, err error) {
	d := &deps{
		log:       log,
		rateLimit: rateLimit{requests: cfg.RateLimitRequests, window: cfg.RateLimitWindow},
	}
	defer func() {
		if err != nil {
			d.close(context.WithoutCancel(ctx))
		}
	}()

	var rdb *goredis.Client
	var redisCfg redis.Config
	if cfg.usesRedis() {
		if redisCfg, err = config.Load[redis.Config](); err != nil {
			return nil, err
		}
		if rdb, err = redis.Connect(ctx, redisCfg); err != nil {
			return nil, err
		}
		d.onShutdown("redis", func(context.Context) error { return rdb.Close() })
		d.checks = append(d.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}

	var dir tenant.Directory
	if cfg.usesPostgres() {
		pgCfg, err := config.Load[pg.Config]()
		if err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		d.onShutdown("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		d.checks = append(d.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})

		if err := pg.Migrate(ctx, pool, pgCfg, log.With(logger.Component("migrations"))); err != nil {
			return nil, err
		}

		dir = pg.NewDirectory(pool)
		d.scopes = scope.New(
			pg.NewBinder(pool, pg.WithBinderLogger(log.With(logger.Component("binder")))),
			scope.WithLogger(log),
		)
		d.settings = pg.NewSettingsStore()
	} else {
		static, err := loadTenantsFile(cfg.TenantsFile)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "loaded static tenant directory",
			slog.String("file", cfg.TenantsFile),
			slog.Int("tenants", static.Len()),
		)
		dir = static
		d.scopes = scope.New(nil, scope.WithLogger(log))
		d.settings = newMemorySettings(static)
	}

	cache, err := newCache(cfg, rdb, redisCfg.KeyPrefix)
	if err != nil {
		return nil, err
	}
	d.onShutdown("tenant cache", func(context.Context) error { return cache.Close() })
	cached := tenant.NewCachedDirectory(dir, cache, cfg.CacheTTL)
	d.tenants = cached
	d.invalidate = cached.Invalidate

	var resolverOpts []tenant.ResolverOption
	resolverOpts = append(resolverOpts, tenant.WithResolverLogger(log.With(logger.Component("resolver"))))
	if cfg.TenantHeader != "" {
		resolverOpts = append(resolverOpts, tenant.WithTrustedHeader(cfg.TenantHeader))
	}
	d.resolver = tenant.NewResolver(cached, resolverOpts...)

	d.identity = principal.NewProvider(identitySource(cfg, rdb, redisCfg.KeyPrefix, log), principal.WithLogger(log))

	return d, nil
}

func (d *deps) onShutdown(name string, fn func(context.Context) error) {
	d.hooks = append(d.hooks, shutdownHook{name: name, fn: fn})
}

// close runs the shutdown hooks in reverse order of registration.
func (d *deps) close(ctx context.Context) {
	for i := len(d.hooks) - 1; i >= 0; i-- {
		h := d.hooks[i]
		if err := h.fn(ctx); err != nil {
			d.log.ErrorContext(ctx, "failed to close resource", slog.String("name", h.name), logger.Error(err))
		}
	}
}

func loadTenantsFile(path string) (*tenant.StaticDirectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tenants file: %w", err)
	}
	defer f.Close()
	return tenant.LoadStaticDirectory(f)
}

func newCache(cfg appConfig, rdb *goredis.Client, prefix string) (tenant.Cache, error) {
	switch cfg.TenantCache {
	case "memory", "":
		return tenant.NewInMemoryCacheWithSize(cfg.CacheSize), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis tenant cache requires a redis connection")
		}
		return tenant.NewRedisCache(rdb, prefix+"tenant:"), nil
	case "none":
		return tenant.NoOpCache{}, nil
	default:
		return nil, fmt.Errorf("unknown tenant cache %q", cfg.TenantCache)
	}
}

// identitySource chains the configured principal sources: bearer JWT first, then the
// redis session cookie.
func identitySource(cfg appConfig, rdb *goredis.Client, prefix string, log *slog.Logger) principal.Source {
	var sources []principal.Source
	if cfg.JWTSecret != "" {
		opts := []principal.JWTOption{principal.WithJWTLogger(log)}
		if cfg.JWTIssuer != "" {
			opts = append(opts, principal.WithIssuer(cfg.JWTIssuer))
		}
		sources = append(sources, principal.NewJWTSource([]byte(cfg.JWTSecret), opts...))
	}
	if cfg.SessionsEnabled && rdb != nil {
		sources = append(sources, principal.NewRedisSessionSource(rdb,
			principal.WithSessionPrefix(prefix+principal.DefaultSessionPrefix),
			principal.WithSessionToken(principal.FromCookie(cfg.SessionCookie)),
			principal.WithSessionLogger(log),
		))
	}
	if len(sources) == 0 {
		log.Warn("no identity source configured, every request is anonymous")
	}
	return principal.Chain(sources...)
}
