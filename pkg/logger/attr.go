package logger

import (
	"log/slog"

	"github.com/google/uuid"
)

// Error records err under "error". A nil error yields an empty Attr, which handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records a tenant identifier under "tenant_id".
func TenantID(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("tenant_id", id.String())
}

// PrincipalID records a principal identifier under "principal_id".
func PrincipalID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("principal_id", id)
}

// Role records a role name under "role".
func Role(role string) slog.Attr {
	return slog.String("role", role)
}

// Reason records a denial reason under "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// Host records the request host under "host".
func Host(host string) slog.Attr {
	return slog.String("host", host)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}
