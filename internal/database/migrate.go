package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending schema migration. The driver borrows a single
// connection from db and hands it back on Close; db itself stays open.
func Migrate(db *sql.DB) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateTo moves the schema up or down to exactly version.
func MigrateTo(db *sql.DB, version uint) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		return m.Migrate(version)
	})
}

func withMigrator(db *sql.DB, run func(m *migrate.Migrate) error) error {
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create pgx migrate driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := run(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
