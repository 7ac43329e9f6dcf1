package principal

import (
	"context"
	"net/http"
)

// Source yields the upstream user record for a request, or nil when the request is anonymous.
// The record is loosely typed and normalized by the Provider.
type Source interface {
	UpstreamUser(ctx context.Context, r *http.Request) (map[string]any, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, r *http.Request) (map[string]any, error)

func (f SourceFunc) UpstreamUser(ctx context.Context, r *http.Request) (map[string]any, error) {
	return f(ctx, r)
}

// Chain returns a Source that asks each source in order and returns the first record found.
// An error from any source stops the chain.
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, r *http.Request) (map[string]any, error) {
		for _, s := range sources {
			raw, err := s.UpstreamUser(ctx, r)
			if err != nil {
				return nil, err
			}
			if raw != nil {
				return raw, nil
			}
		}
		return nil, nil
	})
}
