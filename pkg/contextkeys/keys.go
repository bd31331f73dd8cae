// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the engine must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//
//	import "github.com/razorzibra-dot/authzkit/pkg/contextkeys"
//	ctx = context.WithValue(ctx, contextkeys.HeldPermissionsKey, perms)
//	perms, _ := ctx.Value(contextkeys.HeldPermissionsKey).([]string)
package contextkeys

// Key is the type for context keys to prevent collisions
type Key string

const (
	// HeldPermissionsKey contains the caller's granted permission tokens
	// Set by: middleware.WithHeldPermissions, upstream auth layers
	// Required by: middleware.RequirePermission, authorization handlers
	// Type: []string
	HeldPermissionsKey Key = "held_permissions"

	// SubjectRoleKey contains the caller's database role name
	// Set by: upstream auth layers after authentication
	// Used by: role management endpoints, CanManageRole checks
	// Type: string
	SubjectRoleKey Key = "subject_role"

	// RequestIDKey contains request ID string (UUID)
	// Set by: middleware.RequestID
	// Used by: Logger, distributed tracing
	// Type: string
	RequestIDKey Key = "request_id"

	// TenantIDKey contains the tenant identifier
	// Set by: middleware.WithTenantID, upstream auth layers
	// Used by: middleware denial-audit logging
	// Type: string
	TenantIDKey Key = "tenant_id"
)
