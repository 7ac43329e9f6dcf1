package principal

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// Provider turns the upstream user record of a request into a Principal.
type Provider struct {
	source Source
	logger *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider creates a Provider over source. It panics if source is nil.
func NewProvider(source Source, opts ...ProviderOption) *Provider {
	if source == nil {
		panic("principal: source cannot be nil")
	}
	p := &Provider{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Current returns the principal of r, or nil when the request is anonymous.
// Inactive principals are reported as anonymous.
func (p *Provider) Current(r *http.Request) (*Principal, error) {
	ctx := r.Context()

	raw, err := p.source.UpstreamUser(ctx, r)
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = errors.Join(ErrSourceUnavailable, err)
		}
		p.logger.ErrorContext(ctx, "failed to load upstream user", slog.Any("error", err))
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	pr := Normalize(raw)
	if !pr.Active {
		p.logger.DebugContext(ctx, "inactive principal treated as anonymous", slog.String("principal_id", pr.ID))
		return nil, nil
	}
	return &pr, nil
}
