package guard

import (
	"context"

	"github.com/dmitrymomot/tenantgate/pkg/principal"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/tenant"
)

// Request is the resolved tenant and principal of one request.
// It is built only by the pipeline, after resolution and normalization have completed.
type Request struct {
	tenant    *tenant.Tenant
	principal *principal.Principal
}

// Tenant returns the resolved tenant.
func (r *Request) Tenant() *tenant.Tenant { return r.tenant }

// Principal returns the request principal, or nil for anonymous requests.
func (r *Request) Principal() *principal.Principal { return r.principal }

// Check runs Check for this request.
func (r *Request) Check(required rbac.Role) Decision {
	return Check(r.tenant, r.principal, required)
}

type requestContextKey struct{}

func withRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestContextKey{}, r)
}

// FromContext returns the Request stored by the pipeline.
func FromContext(ctx context.Context) (*Request, bool) {
	r, ok := ctx.Value(requestContextKey{}).(*Request)
	if !ok || r == nil {
		return nil, false
	}
	return r, true
}
