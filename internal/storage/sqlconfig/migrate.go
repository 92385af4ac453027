package sqlconfig

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationResult reports the schema version before and after a run.
type MigrationResult struct {
	Before uint
	After  uint
}

// RunMigrations applies every pending migration to the database at dsn.
func RunMigrations(dsn string) (MigrationResult, error) {
	var result MigrationResult

	// The migrate driver closes the connection it is given, so it gets its own.
	migrateDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return result, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := postgres.WithInstance(migrateDB, &postgres.Config{})
	if err != nil {
		return result, fmt.Errorf("create postgres driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return result, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return result, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	result.Before, err = currentVersion(m)
	if err != nil {
		return result, fmt.Errorf("read version before migration: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("run migrations: %w", err)
	}

	result.After, err = currentVersion(m)
	if err != nil {
		return result, fmt.Errorf("read version after migration: %w", err)
	}
	return result, nil
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
