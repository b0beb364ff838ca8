// Package sqlite implements the local stores and pending-change ledgers on top
// of an embedded SQLite database.
package sqlite

import (
	"database/sql"
	"embed"

	infra "github.com/fincalc/finsync/internal/infrastructure/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	return infra.Migrate(db, migrationsFS, "migrations")
}
