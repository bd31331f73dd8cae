package roles

import (
	"context"
	"database/sql"
	"fmt"
)

// Store reads role rows from PostgreSQL. It implements Provider and is the
// usual backing store behind a Catalog.
type Store struct {
	db *sql.DB
}

// NewStore creates a role store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FetchAllRoles returns every role row in insertion order, so first-seen
// ordering downstream is stable across refreshes.
func (s *Store) FetchAllRoles(ctx context.Context) ([]Role, error) {
	query := `
		SELECT name, is_system_role, tenant_id
		FROM roles
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var result []Role
	for rows.Next() {
		var role Role
		var tenantID sql.NullString

		if err := rows.Scan(&role.Name, &role.IsSystemRole, &tenantID); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if tenantID.Valid {
			id := tenantID.String
			role.TenantID = &id
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roles: %w", err)
	}

	return result, nil
}
