package roles

// Canonical role names. The hierarchy below is configuration, not data: role
// rows live in the database, but their relative authority is fixed here. This
// asymmetry is inherited from the consuming system and is preserved on
// purpose; do not move the ranks into the catalog.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleEngineer   = "engineer"
	RoleAgent      = "agent"
	RoleCustomer   = "customer"
)

// hierarchyLevels assigns each canonical role its authority rank. A lower
// number means higher authority.
var hierarchyLevels = map[string]int{
	RoleSuperAdmin: 1,
	RoleAdmin:      2,
	RoleManager:    3,
	RoleEngineer:   4,
	RoleAgent:      5,
	RoleCustomer:   6,
}

// HierarchyLevel returns the configured authority rank for a canonical role
// name (lower is more authoritative). The second return is false for names
// outside the fixed hierarchy.
func HierarchyLevel(canonicalName string) (int, bool) {
	level, ok := hierarchyLevels[NormalizeName(canonicalName)]
	return level, ok
}

// Outranks reports whether role a holds strictly greater authority than role
// b. Names outside the fixed hierarchy never outrank anything and are never
// outranked into a grant: unknown on either side means false.
func Outranks(a, b string) bool {
	levelA, okA := HierarchyLevel(a)
	levelB, okB := HierarchyLevel(b)
	if !okA || !okB {
		return false
	}
	return levelA < levelB
}
