package principal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionCookie is the cookie carrying the session token.
	DefaultSessionCookie = "sid"

	// DefaultSessionPrefix namespaces session records in Redis.
	DefaultSessionPrefix = "session:"
)

// SessionReader is the subset of the Redis client used to read session records.
type SessionReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSessionSource reads the upstream user record stored as JSON under a session token.
type RedisSessionSource struct {
	client  SessionReader
	prefix  string
	extract TokenExtractor
	logger  *slog.Logger
}

// SessionOption configures a RedisSessionSource.
type SessionOption func(*RedisSessionSource)

// WithSessionPrefix sets the key prefix for session records.
func WithSessionPrefix(prefix string) SessionOption {
	return func(s *RedisSessionSource) {
		s.prefix = prefix
	}
}

// WithSessionToken replaces the default session cookie extractor.
func WithSessionToken(extract TokenExtractor) SessionOption {
	return func(s *RedisSessionSource) {
		if extract != nil {
			s.extract = extract
		}
	}
}

// WithSessionLogger sets the logger used to report unreadable records.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *RedisSessionSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedisSessionSource creates a session source backed by Redis.
func NewRedisSessionSource(client SessionReader, opts ...SessionOption) *RedisSessionSource {
	if client == nil {
		panic("principal: redis client cannot be nil")
	}
	s := &RedisSessionSource{
		client:  client,
		prefix:  DefaultSessionPrefix,
		extract: FromCookie(DefaultSessionCookie),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpstreamUser implements Source.
func (s *RedisSessionSource) UpstreamUser(ctx context.Context, r *http.Request) (map[string]any, error) {
	token, ok := s.extract(r)
	if !ok {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrSourceUnavailable, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.WarnContext(ctx, "unreadable session record", slog.Any("error", err))
		return nil, nil
	}
	return raw, nil
}
