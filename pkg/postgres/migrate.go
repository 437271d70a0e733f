package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations runs all pending database migrations from the given directory.
// The migrationsDir should be a source URL such as "file://./migrations".
// If there are no new migrations to apply the function returns nil.
func RunMigrations(dsn string, migrationsDir string) error {
	m, err := migrate.New(migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations up: %w", err)
	}

	return nil
}

// RunMigrationsDown rolls back the given number of migrations, or all of them
// when steps is zero. If there is nothing to roll back the function returns nil.
func RunMigrationsDown(dsn string, migrationsDir string, steps int) error {
	m, err := migrate.New(migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations down: %w", err)
	}

	return nil
}

// MigrationVersion reports the current schema version and whether the last
// migration left the database dirty.
func MigrationVersion(dsn string, migrationsDir string) (uint, bool, error) {
	m, err := migrate.New(migrationsDir, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("postgres: read version: %w", err)
	}
	return version, dirty, nil
}
