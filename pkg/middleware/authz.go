package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/razorzibra-dot/authzkit/pkg/authz"
	"github.com/razorzibra-dot/authzkit/pkg/contextkeys"
)

// Guard wraps HTTP routes with fail-closed permission checks. The held
// permission set is read from request context, where an upstream
// authentication layer (or WithHeldPermissions) must have placed it.
type Guard struct {
	authorizer *authz.Authorizer
	log        *logrus.Logger
}

// NewGuard creates a route guard over the given authorizer.
func NewGuard(authorizer *authz.Authorizer, log *logrus.Logger) *Guard {
	if log == nil {
		log = logrus.New()
	}
	return &Guard{authorizer: authorizer, log: log}
}

// RequirePermission creates middleware that denies the request unless the
// caller's held set grants the named permission. No held set in context reads
// as unauthenticated (401); a present set that does not grant reads as
// forbidden (403).
func (g *Guard) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			held, ok := HeldPermissions(r.Context())
			if !ok {
				g.unauthorizedResponse(w, "missing permission context")
				return
			}

			if !g.authorizer.IsGranted(r.Context(), held, permission) {
				g.log.WithFields(logrus.Fields{
					"permission": permission,
					"request_id": RequestIDFromContext(r.Context()),
					"tenant_id":  TenantIDFromContext(r.Context()),
					"path":       r.URL.Path,
				}).Warn("Permission denied")
				g.forbiddenResponse(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleAuthority creates middleware that denies unless the caller's
// role (from context) outranks the role named in the given header. It guards
// role-management endpoints where the target role travels with the request.
func (g *Guard) RequireRoleAuthority(targetRoleHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acting, ok := r.Context().Value(contextkeys.SubjectRoleKey).(string)
			if !ok || acting == "" {
				g.unauthorizedResponse(w, "missing role context")
				return
			}

			target := r.Header.Get(targetRoleHeader)
			if !g.authorizer.CanManageRole(r.Context(), acting, target) {
				g.log.WithFields(logrus.Fields{
					"acting_role": acting,
					"target_role": target,
					"request_id":  RequestIDFromContext(r.Context()),
				}).Warn("Role authority denied")
				g.forbiddenResponse(w, "insufficient role authority")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

func (g *Guard) forbiddenResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// WithHeldPermissions returns a context carrying the caller's held permission
// set. A nil slice is stored as an empty one so presence always means
// "authenticated".
func WithHeldPermissions(ctx context.Context, held []string) context.Context {
	if held == nil {
		held = []string{}
	}
	return context.WithValue(ctx, contextkeys.HeldPermissionsKey, held)
}

// HeldPermissions extracts the held permission set from context. The second
// return value distinguishes an absent set from an empty one.
func HeldPermissions(ctx context.Context) ([]string, bool) {
	held, ok := ctx.Value(contextkeys.HeldPermissionsKey).([]string)
	return held, ok
}

// WithSubjectRole returns a context carrying the caller's database role name.
func WithSubjectRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextkeys.SubjectRoleKey, role)
}

// WithTenantID returns a context carrying the caller's tenant identifier, for
// denial-audit log lines.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextkeys.TenantIDKey, tenantID)
}

// TenantIDFromContext returns the tenant identifier, or "" when none was set.
func TenantIDFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(contextkeys.TenantIDKey).(string)
	return tenantID
}
