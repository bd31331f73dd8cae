// Package middleware provides HTTP middleware for permission enforcement at
// route boundaries.
//
// # Overview
//
// The engine itself is transport-free; this package is the caller-side
// evaluation point for services that route with gorilla/mux. Requests carry
// their held permission set in context, placed there by an upstream
// authentication layer, and the guard denies fail-closed.
//
// # Middleware Components
//
// Guard: fail-closed permission checks
//
//	guard := middleware.NewGuard(authorizer, logger)
//	router.Use(guard.Middleware("crm:customer:record:read"))
//	// 401 when no held set is in context, 403 when it does not grant
//
// RequireRoleAuthority: role-management authority checks
//
//	router.Use(guard.RoleAuthorityMiddleware("X-Target-Role"))
//
// RequestID: UUID per request
//
//	router.Use(middleware.RequestID)
//
// # Context Plumbing
//
// WithHeldPermissions and WithSubjectRole install the caller's identity for
// the guard to read; both store under keys from pkg/contextkeys.
//
// # Related Packages
//
//   - pkg/authz: the decision surface the guard delegates to
//   - pkg/contextkeys: context key definitions
package middleware
