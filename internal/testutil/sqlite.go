// Package testutil provisions migrated databases for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// SetupSQLite opens a private in-memory SQLite database with all migrations
// applied. It is closed when the test ends.
func SetupSQLite(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := dbx.Open(context.Background(), dbx.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrate(t, db, dbx.DriverSQLite)
	return db
}

// migrate applies the embedded migrations for driver. goose keeps its base FS
// and dialect in package state, so callers must not run in parallel.
func migrate(t *testing.T, db *bun.DB, driver string) {
	t.Helper()

	dir := "postgres"
	if driver == dbx.DriverSQLite {
		dir = "sqlite"
	}

	goose.SetBaseFS(migrations.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })
	require.NoError(t, goose.SetDialect(dbx.GooseDialect(driver)))
	goose.SetLogger(goose.NopLogger())

	require.NoError(t, goose.UpContext(context.Background(), db.DB, dir))
}
