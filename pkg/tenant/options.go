package tenant

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// ErrorHandler handles errors that occur during tenant resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution, e.g. health probes.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func defaultConfig() *config {
	return &config{
		errorHandler: DefaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// StatusCode maps a resolution error to the HTTP status the caller should answer with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrResolutionUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTenantInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrNoTenantForRequest), errors.Is(err, ErrTenantNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler writes a plain-text response for the resolution taxonomy.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch code := StatusCode(err); code {
	case http.StatusNotFound:
		http.Error(w, "Domain not recognized", code)
	case http.StatusForbidden:
		http.Error(w, "Tenant is suspended", code)
	case http.StatusServiceUnavailable:
		http.Error(w, "Service temporarily unavailable", code)
	default:
		http.Error(w, "Internal server error", code)
	}
}
