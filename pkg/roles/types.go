package roles

import (
	"context"
	"strings"
)

// Role is a role row as stored by the backing system. The engine only reads
// roles; creation and mutation happen in an external administrative process.
type Role struct {
	// Name is the stored display name, arbitrary in case and spacing.
	Name string `json:"name"`

	// IsSystemRole is true for roles not owned by any tenant.
	IsSystemRole bool `json:"is_system_role"`

	// TenantID is nil for platform-wide roles.
	TenantID *string `json:"tenant_id"`
}

// Provider supplies the full set of defined roles from a backing store. The
// catalog treats any error as "zero roles available this cycle" and never
// propagates it to its own callers.
type Provider interface {
	FetchAllRoles(ctx context.Context) ([]Role, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]Role, error)

// FetchAllRoles calls f.
func (f ProviderFunc) FetchAllRoles(ctx context.Context) ([]Role, error) {
	return f(ctx)
}

// NormalizeName produces the canonical comparison form of a role name:
// trimmed and lowercased. The engine never compares raw role names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
