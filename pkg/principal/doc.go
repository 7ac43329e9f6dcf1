// Package principal normalizes the upstream user record of a request into a Principal.
//
// Authentication itself belongs to an upstream collaborator. A Source exposes whatever that
// collaborator attached to the request as a loosely typed record: JWTSource reads HS256
// bearer claims, RedisSessionSource reads a JSON record stored under a session cookie, and
// Chain combines several. The Provider normalizes the record with Normalize, which never
// fails: unknown roles become viewer, and a missing tenant id marks a platform principal.
//
//	provider := principal.NewProvider(principal.Chain(
//	    principal.NewJWTSource(secret),
//	    principal.NewRedisSessionSource(redisClient),
//	))
//
//	p, err := provider.Current(r)
//	if err != nil {
//	    // upstream store unavailable
//	}
//	if p == nil {
//	    // anonymous
//	}
//
// Role checks go through Principal.Can, which is false for a nil principal.
package principal
