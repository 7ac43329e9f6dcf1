package principal

import "errors"

var (
	// ErrSourceUnavailable wraps failures of the upstream identity store.
	ErrSourceUnavailable = errors.New("principal.source_unavailable")

	// ErrNoPrincipalInContext is returned when no principal is stored in the context.
	ErrNoPrincipalInContext = errors.New("principal.not_in_context")
)
