// Package logger builds the service's log/slog logger.
//
// New applies functional options for level, format, output and static attributes, and
// wraps the handler in a decorator that adds request-scoped attributes from the context
// of every record:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "tenantgate"),
//	    logger.WithContextExtractors(
//	        logger.RequestIDExtractor(),
//	        tenant.LoggerExtractor(),
//	        principal.LoggerExtractor(),
//	    ),
//	)
//
//	log.InfoContext(ctx, "tenant suspended", logger.TenantID(id), logger.Reason("billing"))
//
// Attribute helpers keep keys consistent across packages.
package logger
