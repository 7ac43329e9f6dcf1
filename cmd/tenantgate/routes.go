package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/dmitrymomot/tenantgate/pkg/guard"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/scope"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

type rateLimit struct {
	requests int
	window   time.Duration
}

func newRouter(d *deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(d.log, d.checks...))

	gateOpts := []guard.Option{guard.WithLogger(d.log)}

	r.Group(func(r chi.Router) {
		r.Use(guard.Pipeline(d.resolver, d.scopes, d.identity, gateOpts...))
		if d.rateLimit.requests > 0 {
			r.Use(tenantRateLimit(d.rateLimit, d.log))
		}

		r.With(guard.RequirePermission(permissions, "profile.read", gateOpts...)).Get("/me", handleMe)
		r.With(guard.RequirePermission(permissions, "settings.read", gateOpts...)).Get("/settings", handleGetSettings(d))
		r.With(guard.RequirePermission(permissions, "settings.update", gateOpts...)).Put("/settings", handleUpdateSettings(d))
		r.With(guard.RequirePermission(permissions, "tenant.activate", gateOpts...)).Put("/tenant/active", handleSetActive(d))
	})

	return r
}

// tenantRateLimit limits requests per resolved tenant so one tenant cannot starve the others.
func tenantRateLimit(cfg rateLimit, log *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(cfg.requests, cfg.window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if id, ok := tenant.IDFromContext(r.Context()); ok {
				return id.String(), nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.WarnContext(r.Context(), "tenant rate limit exceeded", logger.Host(r.Host))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		}),
	)
}

type meResponse struct {
	Principal any            `json:"principal"`
	Tenant    *tenant.Tenant `json:"tenant"`
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	req, ok := guard.FromContext(r.Context())
	if !ok {
		guard.DefaultErrorHandler(w, r, guard.ErrNoRequest)
		return
	}
	t := *req.Tenant()
	t.Settings = nil
	writeJSON(w, http.StatusOK, meResponse{Principal: req.Principal(), Tenant: &t})
}

func handleGetSettings(d *deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := d.settings.Settings(r.Context())
		if err != nil {
			storeError(w, r, d.log, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func handleUpdateSettings(d *deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&settings); err != nil {
			http.Error(w, "Invalid settings document", http.StatusBadRequest)
			return
		}

		updated, err := d.settings.UpdateSettings(r.Context(), settings)
		if err != nil {
			storeError(w, r, d.log, err)
			return
		}
		d.invalidate(r.Context(), updated)

		d.log.InfoContext(r.Context(), "tenant settings updated")
		writeJSON(w, http.StatusOK, updated.Settings)
	}
}

type activeRequest struct {
	Active *bool `json:"active"`
}

type activeResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// handleSetActive suspends or reactivates the resolved tenant. Once suspended the tenant
// no longer resolves, so reactivation has to go through the directory directly.
func handleSetActive(d *deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body activeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil || body.Active == nil {
			http.Error(w, "Invalid activation document", http.StatusBadRequest)
			return
		}

		req, ok := guard.FromContext(r.Context())
		if !ok {
			guard.DefaultErrorHandler(w, r, guard.ErrNoRequest)
			return
		}
		t := req.Tenant()

		if err := d.tenants.SetActive(r.Context(), t.ID, *body.Active); err != nil {
			storeError(w, r, d.log, err)
			return
		}
		d.invalidate(r.Context(), t)

		d.log.InfoContext(r.Context(), "tenant activation changed", slog.Bool("active", *body.Active))
		writeJSON(w, http.StatusOK, activeResponse{ID: t.ID.String(), Active: *body.Active})
	}
}

func storeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, tenant.ErrReadOnlyDirectory):
		http.Error(w, "Tenant directory is read-only", http.StatusNotImplemented)
	case errors.Is(err, scope.ErrNoScope):
		log.ErrorContext(r.Context(), "tenant store used outside tenant scope", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		log.ErrorContext(r.Context(), "tenant store failed", logger.Error(err))
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
