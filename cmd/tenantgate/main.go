// Command tenantgate serves tenant-scoped, role-gated endpoints behind the tenant
// resolution and authorization pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrymomot/tenantgate/pkg/config"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	loadOpts := []config.Option{config.WithEnvFiles(".env")}

	cfg, err := config.Load[appConfig](loadOpts...)
	if err != nil {
		return err
	}
	httpCfg, err := config.Load[httpserver.Config](loadOpts...)
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(
			logger.RequestIDExtractor(),
			tenant.LoggerExtractor(),
			principal.LoggerExtractor(),
		),
	)

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize dependencies", logger.Error(err))
		return err
	}

	opts := []httpserver.Option{httpserver.WithLogger(log)}
	for i := len(d.hooks) - 1; i >= 0; i-- {
		opts = append(opts, httpserver.WithShutdownHook(d.hooks[i].name, d.hooks[i].fn))
	}

	if err := httpserver.New(httpCfg, newRouter(d), opts...).Run(ctx); err != nil {
		// Hooks only run on graceful shutdown.
		if errors.Is(err, httpserver.ErrStart) {
			d.close(context.WithoutCancel(ctx))
		}
		return err
	}
	return nil
}
