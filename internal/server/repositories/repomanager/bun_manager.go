// Package repomanager provides a concrete RepositoryManager over bun,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/migrations"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/users"
)

// BunRepositoryManager vends bun-backed repository implementations and
// exposes a schema migration hook for the configured driver.
type BunRepositoryManager struct {
	driver string
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *BunRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewBunRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for the driver's
// dialect and runs them against the provided database connection.
func (m *BunRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dbx.GooseDialect(m.driver)); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.migrationsDir()); err != nil {
		return err
	}
	return nil
}

func (m *BunRepositoryManager) migrationsDir() string {
	if m.driver == dbx.DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// NewBunRepositoryManager constructs a RepositoryManager for driver
// ("pgx" or "sqlite").
func NewBunRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres, dbx.DriverSQLite:
		return &BunRepositoryManager{driver: driver}, nil
	default:
		return nil, dbx.ErrUnsupportedDriver
	}
}
