// Package redis connects to the Redis server that backs the shared tenant cache and the
// session records read by the principal package.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	cache := tenant.NewRedisCache(client, cfg.KeyPrefix+"tenant:")
//	sessions := principal.NewRedisSessionSource(client,
//	    principal.WithSessionPrefix(cfg.KeyPrefix+"session:"))
//
// Healthcheck plugs the client into the readiness endpoint. Configuration is read from
// REDIS_* environment variables; see Config.
package redis
