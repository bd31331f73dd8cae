package roles

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/razorzibra-dot/authzkit/pkg/observability"
)

// Resolver answers role-name questions on top of the catalog cache: mapping
// between stored and canonical names, validity, platform-role checks and
// hierarchy comparisons. All name comparisons are case-insensitive and
// whitespace-trimmed.
//
// Resolution never fails loudly: an unresolvable name logs a warning and
// yields a documented fallback value instead of an error.
type Resolver struct {
	catalog *Catalog
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *Catalog, log *logrus.Logger, metrics *observability.Metrics) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{catalog: catalog, log: log, metrics: metrics}
}

// Catalog returns the underlying role catalog cache.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// MapDatabaseRoleToCanonical returns the normalized form of rawName when a
// role with that name exists in the catalog; otherwise it logs a warning and
// returns the caller-supplied fallback.
func (r *Resolver) MapDatabaseRoleToCanonical(ctx context.Context, rawName, fallback string) string {
	normalized := NormalizeName(rawName)
	if _, ok := r.catalog.Lookup(ctx, normalized); ok {
		return normalized
	}
	r.log.Warnf("Unknown database role %q, falling back to %q", rawName, fallback)
	if r.metrics != nil {
		r.metrics.RoleFallbacksTotal.WithLabelValues("db_to_canonical").Inc()
	}
	return fallback
}

// MapCanonicalToDatabaseRole returns the stored (non-normalized) name of the
// role whose normalized name matches canonicalName, or the input unchanged
// with a warning when no such role exists.
func (r *Resolver) MapCanonicalToDatabaseRole(ctx context.Context, canonicalName string) string {
	if role, ok := r.catalog.Lookup(ctx, canonicalName); ok {
		return role.Name
	}
	r.log.Warnf("No stored role matches canonical name %q, returning it unchanged", canonicalName)
	if r.metrics != nil {
		r.metrics.RoleFallbacksTotal.WithLabelValues("canonical_to_db").Inc()
	}
	return canonicalName
}

// IsValidRole reports whether the normalized input names a cached role.
func (r *Resolver) IsValidRole(ctx context.Context, rawName string) bool {
	_, ok := r.catalog.Lookup(ctx, rawName)
	return ok
}

// ListValidRoles returns the de-duplicated normalized role names in
// first-seen order.
func (r *Resolver) ListValidRoles(ctx context.Context) []string {
	all := r.catalog.Roles(ctx)
	seen := make(map[string]bool, len(all))
	names := make([]string, 0, len(all))
	for _, role := range all {
		normalized := NormalizeName(role.Name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		names = append(names, normalized)
	}
	return names
}

// IsPlatformRole reports whether the named role is platform-wide: a system
// role owned by no tenant. The answer is derived from the stored flags, never
// inferred from the name string.
func (r *Resolver) IsPlatformRole(ctx context.Context, rawName string) bool {
	role, ok := r.catalog.Lookup(ctx, rawName)
	if !ok {
		return false
	}
	return role.IsSystemRole && role.TenantID == nil
}

// RoleOutranks reports whether roleA holds strictly greater authority than
// roleB per the fixed hierarchy. Both names are normalized first.
func (r *Resolver) RoleOutranks(roleA, roleB string) bool {
	return Outranks(roleA, roleB)
}
