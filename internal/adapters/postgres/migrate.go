package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5 scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUnsupportedDSN is returned when the DSN is not a postgres URL.
var ErrUnsupportedDSN = errors.New("postgres: migrations need a postgres:// URL")

// Migrate brings the schema up to the latest embedded version. It opens
// its own connection and closes it before returning.
func Migrate(dsn string) error {
	url, err := migrateURL(dsn)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("postgres: init migrate: %w", err)
	}

	upErr := m.Up()

	srcErr, dbErr := m.Close()

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate up: %w", upErr)
	}

	return errors.Join(srcErr, dbErr)
}

// migrateURL rewrites a postgres URL to the scheme registered by the
// golang-migrate pgx/v5 driver.
func migrateURL(dsn string) (string, error) {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest, nil
		}
	}

	if strings.HasPrefix(dsn, "pgx5://") {
		return dsn, nil
	}

	return "", ErrUnsupportedDSN
}
