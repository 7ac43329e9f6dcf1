package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShutdownTimeout overrides Config.ShutdownTimeout.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithShutdownHook registers a function run after the listener stops, in registration
// order. Use it to close pools and caches once no request can reach them.
func WithShutdownHook(name string, h func(context.Context) error) Option {
	if h == nil {
		panic("WithShutdownHook: nil hook")
	}
	return func(s *Server) {
		s.hooks = append(s.hooks, hook{name: name, fn: h})
	}
}
