package roles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration represents a database migration.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all role-store migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create roles table",
			SQL: `
				CREATE TABLE IF NOT EXISTS roles (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					is_system_role BOOLEAN NOT NULL DEFAULT FALSE,
					tenant_id VARCHAR(255),
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				-- Postgres table-level UNIQUE constraints take a plain column
				-- list; name+tenant uniqueness needs COALESCE so two NULL
				-- tenants collide, hence the expression index.
				CREATE UNIQUE INDEX uq_roles_name_tenant ON roles(name, COALESCE(tenant_id, ''));

				CREATE INDEX idx_roles_tenant_id ON roles(tenant_id);
				CREATE INDEX idx_roles_is_system_role ON roles(is_system_role);
				CREATE INDEX idx_roles_lower_name ON roles(LOWER(name));
			`,
		},
	}
}

// RunMigrations executes all pending migrations inside transactions, tracking
// applied versions in authz_migrations.
func RunMigrations(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
	if log == nil {
		log = logrus.New()
	}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS authz_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM authz_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, migration := range GetMigrations() {
		if applied[migration.Version] {
			continue
		}

		log.Infof("Running migration %d: %s", migration.Version, migration.Description)

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO authz_migrations (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SeedPlatformRoles inserts the canonical hierarchy roles as platform-wide
// system roles when they are missing. Existing rows are left untouched.
func SeedPlatformRoles(ctx context.Context, db *sql.DB) error {
	canonical := []string{
		RoleSuperAdmin, RoleAdmin, RoleManager, RoleEngineer, RoleAgent, RoleCustomer,
	}

	for _, name := range canonical {
		_, err := db.ExecContext(ctx, `
			INSERT INTO roles (name, is_system_role, tenant_id)
			VALUES ($1, TRUE, NULL)
			ON CONFLICT DO NOTHING
		`, name)
		if err != nil {
			return fmt.Errorf("failed to seed platform role %s: %w", name, err)
		}
	}
	return nil
}
