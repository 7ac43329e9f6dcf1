// Package httpserver runs the service's HTTP server with graceful shutdown.
//
//	srv := httpserver.New(cfg, router,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook("postgres", func(context.Context) error {
//	        pool.Close()
//	        return nil
//	    }),
//	)
//	if err := srv.Run(ctx); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled or the process receives SIGINT or SIGTERM. In-flight
// requests get ShutdownTimeout to finish; shutdown hooks then run in registration order.
//
// LivenessHandler and ReadinessHandler back the /health endpoints; readiness runs named
// dependency checks such as pg.Healthcheck and redis.Healthcheck.
package httpserver
