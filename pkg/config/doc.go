// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for optional .env files and
// github.com/caarlos0/env/v11 for struct parsing. Each component declares its own
// env-tagged struct (pg.Config, redis.Config, httpserver.Config) and the composition root
// loads them:
//
//	pgCfg, err := config.Load[pg.Config](config.WithEnvFiles(".env"))
//	if err != nil {
//	    return err
//	}
//
// Tests pass variables explicitly with WithEnvironment instead of touching the process
// environment.
package config
