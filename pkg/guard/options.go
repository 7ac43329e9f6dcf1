package guard

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	errorHandler ErrorHandler
	tenantOpts   []tenant.Option
	logger       *slog.Logger
}

// Option configures the pipeline and the gates.
type Option func(*config)

// WithErrorHandler sets the handler for rejected requests.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithTenantOptions passes options to the tenant resolution middleware.
func WithTenantOptions(opts ...tenant.Option) Option {
	return func(c *config) {
		c.tenantOpts = append(c.tenantOpts, opts...)
	}
}

// WithLogger sets the logger used to record denials.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		errorHandler: DefaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// StatusCode maps pipeline and gate errors to HTTP status codes.
// Tenant resolution errors map the way tenant.StatusCode does.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCrossTenant), errors.Is(err, ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, principal.ErrSourceUnavailable), errors.Is(err, scope.ErrBindFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, scope.ErrNestedTenantMismatch), errors.Is(err, ErrNoRequest):
		return http.StatusInternalServerError
	default:
		return tenant.StatusCode(err)
	}
}

// DefaultErrorHandler writes a plain-text response with the status from StatusCode.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch code := StatusCode(err); code {
	case http.StatusUnauthorized:
		http.Error(w, "Authentication required", code)
	case http.StatusForbidden:
		if errors.Is(err, ErrCrossTenant) || errors.Is(err, ErrInsufficientRole) {
			http.Error(w, "Access denied", code)
			return
		}
		tenant.DefaultErrorHandler(w, r, err)
	case http.StatusServiceUnavailable:
		http.Error(w, "Service temporarily unavailable", code)
	case http.StatusNotFound:
		tenant.DefaultErrorHandler(w, r, err)
	default:
		http.Error(w, "Internal server error", code)
	}
}
