package main

import "time"

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"tenantgate"`

	// TenantHeader enables the trusted explicit tenant id header. Leave empty unless a
	// trusted proxy sets it.
	TenantHeader string `env:"TENANT_HEADER"`
	// TenantsFile switches the directory to a YAML file instead of Postgres.
	TenantsFile string        `env:"TENANTS_FILE"`
	TenantCache string        `env:"TENANT_CACHE" envDefault:"memory"` // memory, redis or none
	CacheTTL    time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	CacheSize   int           `env:"TENANT_CACHE_SIZE" envDefault:"1000"`

	JWTSecret       string `env:"JWT_SECRET"`
	JWTIssuer       string `env:"JWT_ISSUER"`
	SessionsEnabled bool   `env:"SESSIONS_ENABLED" envDefault:"false"`
	SessionCookie   string `env:"SESSION_COOKIE" envDefault:"sid"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"600"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func (c appConfig) usesRedis() bool {
	return c.TenantCache == "redis" || c.SessionsEnabled
}

func (c appConfig) usesPostgres() bool {
	return c.TenantsFile == ""
}
