package middleware

import (
	"github.com/gorilla/mux"
)

// Middleware adapts RequirePermission to gorilla/mux's Use-style middleware
// type, for mounting on a router or subrouter.
func (g *Guard) Middleware(permission string) mux.MiddlewareFunc {
	return mux.MiddlewareFunc(g.RequirePermission(permission))
}

// RoleAuthorityMiddleware adapts RequireRoleAuthority for gorilla/mux.
func (g *Guard) RoleAuthorityMiddleware(targetRoleHeader string) mux.MiddlewareFunc {
	return mux.MiddlewareFunc(g.RequireRoleAuthority(targetRoleHeader))
}
