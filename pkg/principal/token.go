package principal

import (
	"net/http"
	"strings"
)

// TokenExtractor pulls a credential from a request.
type TokenExtractor func(r *http.Request) (string, bool)

// FromCookie reads the token from the named cookie.
func FromCookie(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// FromHeader reads the token from the named header, stripping prefix when present.
func FromHeader(name, prefix string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		value := strings.TrimSpace(r.Header.Get(name))
		if prefix != "" {
			if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
				return "", false
			}
			value = strings.TrimSpace(value[len(prefix):])
		}
		return value, value != ""
	}
}

// FromBearer reads an "Authorization: Bearer <token>" credential.
func FromBearer() TokenExtractor {
	return FromHeader("Authorization", "Bearer ")
}

// FirstToken tries extractors in order.
func FirstToken(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		for _, extract := range extractors {
			if token, ok := extract(r); ok {
				return token, true
			}
		}
		return "", false
	}
}
