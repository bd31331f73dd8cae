package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func testResolver(storedRoles []Role) *Resolver {
	provider := &countingProvider{roles: storedRoles}
	catalog := testCatalog(provider, clockwork.NewFakeClock())
	return NewResolver(catalog, quietLogger(), nil)
}

func TestResolver_MapDatabaseRoleToCanonical(t *testing.T) {
	resolver := testResolver([]Role{
		{Name: "Admin", IsSystemRole: true},
		{Name: "Support Agent"},
	})
	ctx := context.Background()

	assert.Equal(t, "admin", resolver.MapDatabaseRoleToCanonical(ctx, "  ADMIN ", "customer"))
	assert.Equal(t, "support agent", resolver.MapDatabaseRoleToCanonical(ctx, "Support Agent", "customer"))
	assert.Equal(t, "customer", resolver.MapDatabaseRoleToCanonical(ctx, "nonexistent", "customer"))
}

func TestResolver_MapCanonicalToDatabaseRole(t *testing.T) {
	resolver := testResolver([]Role{
		{Name: "Admin"},
	})
	ctx := context.Background()

	// The stored spelling comes back, not the normalized one.
	assert.Equal(t, "Admin", resolver.MapCanonicalToDatabaseRole(ctx, "admin"))

	// Unresolvable names come back unchanged.
	assert.Equal(t, "ghost", resolver.MapCanonicalToDatabaseRole(ctx, "ghost"))
}

func TestResolver_IsValidRole_CaseInsensitive(t *testing.T) {
	resolver := testResolver([]Role{{Name: "Admin"}})
	ctx := context.Background()

	assert.True(t, resolver.IsValidRole(ctx, "ADMIN"))
	assert.True(t, resolver.IsValidRole(ctx, "admin"))
	assert.True(t, resolver.IsValidRole(ctx, " Admin "))
	assert.False(t, resolver.IsValidRole(ctx, "manager"))
}

func TestResolver_ListValidRoles(t *testing.T) {
	resolver := testResolver([]Role{
		{Name: "Super_Admin"},
		{Name: "Admin"},
		{Name: "ADMIN"},
		{Name: "Customer"},
	})

	got := resolver.ListValidRoles(context.Background())
	assert.Equal(t, []string{"super_admin", "admin", "customer"}, got)
}

func TestResolver_ListValidRoles_EmptyOnFetchFailure(t *testing.T) {
	provider := &countingProvider{err: errors.New("store down")}
	catalog := testCatalog(provider, clockwork.NewFakeClock())
	resolver := NewResolver(catalog, quietLogger(), nil)

	assert.Empty(t, resolver.ListValidRoles(context.Background()))
}

func TestResolver_IsPlatformRole(t *testing.T) {
	resolver := testResolver([]Role{
		{Name: "Super_Admin", IsSystemRole: true, TenantID: nil},
		{Name: "Tenant_Admin", IsSystemRole: true, TenantID: strPtr("tenant-1")},
		{Name: "Customer", IsSystemRole: false, TenantID: nil},
	})
	ctx := context.Background()

	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"system role without tenant is platform", "super_admin", true},
		{"system role owned by a tenant is not", "tenant_admin", false},
		{"non-system role without tenant is not", "customer", false},
		{"unknown role is not", "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.IsPlatformRole(ctx, tt.role))
		})
	}
}

func TestResolver_RoleOutranks(t *testing.T) {
	resolver := testResolver(nil)

	assert.True(t, resolver.RoleOutranks("super_admin", "admin"))
	assert.True(t, resolver.RoleOutranks("ADMIN", "customer"))
	assert.False(t, resolver.RoleOutranks("admin", "admin"))
	assert.False(t, resolver.RoleOutranks("customer", "agent"))
	assert.False(t, resolver.RoleOutranks("unknown", "customer"))
	assert.False(t, resolver.RoleOutranks("super_admin", "unknown"))
}
