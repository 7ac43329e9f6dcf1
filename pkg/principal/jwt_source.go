package principal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSource reads the upstream user record from the claims of an HS256 bearer token.
// Missing or invalid tokens, including tokens without an exp claim, make the request anonymous.
type JWTSource struct {
	secret  []byte
	issuer  string
	leeway  time.Duration
	extract TokenExtractor
	logger  *slog.Logger
}

// JWTOption configures a JWTSource.
type JWTOption func(*JWTSource)

// WithIssuer requires the iss claim to match.
func WithIssuer(issuer string) JWTOption {
	return func(s *JWTSource) {
		s.issuer = issuer
	}
}

// WithLeeway allows for clock skew when validating time based claims.
func WithLeeway(d time.Duration) JWTOption {
	return func(s *JWTSource) {
		if d < 0 {
			panic("principal: leeway must not be negative")
		}
		s.leeway = d
	}
}

// WithTokenExtractor replaces the default bearer header extractor.
func WithTokenExtractor(extract TokenExtractor) JWTOption {
	return func(s *JWTSource) {
		if extract != nil {
			s.extract = extract
		}
	}
}

// WithJWTLogger sets the logger used to report rejected tokens.
func WithJWTLogger(logger *slog.Logger) JWTOption {
	return func(s *JWTSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewJWTSource creates a JWTSource. It panics if secret is empty.
func NewJWTSource(secret []byte, opts ...JWTOption) *JWTSource {
	if len(secret) == 0 {
		panic("principal: jwt secret cannot be empty")
	}
	s := &JWTSource{
		secret:  secret,
		extract: FromBearer(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpstreamUser implements Source.
func (s *JWTSource) UpstreamUser(ctx context.Context, r *http.Request) (map[string]any, error) {
	raw, ok := s.extract(r)
	if !ok {
		return nil, nil
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(s.leeway),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		s.logger.DebugContext(ctx, "bearer token rejected", slog.Any("error", err))
		return nil, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, nil
	}
	return claims, nil
}
