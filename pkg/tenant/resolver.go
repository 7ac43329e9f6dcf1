package tenant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultTenantHeader is the header a trusted reverse proxy uses to pass a pre-resolved tenant id.
const DefaultTenantHeader = "X-Tenant-ID"

// Resolver derives the active tenant for a request.
// It performs only directory reads, so calling it repeatedly for the same input is safe.
type Resolver struct {
	dir    Directory
	header string
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTrustedHeader enables the explicit tenant-id signal carried in the named header.
// Only enable it when every request passes through a proxy that sets or strips this header;
// an empty name uses DefaultTenantHeader.
func WithTrustedHeader(name string) ResolverOption {
	return func(r *Resolver) {
		if name == "" {
			name = DefaultTenantHeader
		}
		r.header = name
	}
}

// WithResolverLogger sets the logger used to report directory failures.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver backed by the given directory.
func NewResolver(dir Directory, opts ...ResolverOption) *Resolver {
	if dir == nil {
		panic("tenant: directory is required")
	}
	r := &Resolver{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a host (and an optional explicit tenant id from a trusted upstream) to a tenant.
//
// When explicitID is non-empty the domain lookup is skipped entirely. The result is either an
// active tenant or exactly one of ErrNoTenantForRequest, ErrTenantInactive or
// ErrResolutionUnavailable.
func (r *Resolver) Resolve(ctx context.Context, host, explicitID string) (*Tenant, error) {
	var (
		t   *Tenant
		err error
	)

	if explicitID = strings.TrimSpace(explicitID); explicitID != "" {
		id, perr := uuid.Parse(explicitID)
		if perr != nil || id == uuid.Nil {
			return nil, fmt.Errorf("%w: %w", ErrNoTenantForRequest, ErrInvalidIdentifier)
		}
		t, err = r.dir.FindByID(ctx, id)
	} else {
		hostname := StripPort(host)
		if hostname == "" {
			return nil, ErrNoTenantForRequest
		}
		t, err = r.dir.FindByDomain(ctx, hostname)
	}

	switch {
	case err != nil && !errors.Is(err, ErrDirectoryUnavailable) && errors.Is(err, ErrTenantNotFound):
		return nil, ErrNoTenantForRequest
	case err != nil:
		r.logger.ErrorContext(ctx, "tenant directory lookup failed",
			slog.String("host", host),
			slog.Any("error", err),
		)
		return nil, errors.Join(ErrResolutionUnavailable, err)
	case t == nil:
		return nil, ErrNoTenantForRequest
	case !t.Active:
		return nil, ErrTenantInactive
	}

	return t, nil
}

// ResolveRequest resolves the tenant for an HTTP request from its Host header,
// or from the trusted tenant header when one is configured and present.
func (r *Resolver) ResolveRequest(req *http.Request) (*Tenant, error) {
	var explicitID string
	if r.header != "" {
		explicitID = req.Header.Get(r.header)
	}
	return r.Resolve(req.Context(), req.Host, explicitID)
}

// StripPort removes a port suffix from a Host header value and normalizes the hostname.
// Bracketed IPv6 literals are unwrapped.
func StripPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return NormalizeHost(host)
}
