package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNewBunRepositoryManager(t *testing.T) {
	m, err := NewBunRepositoryManager(dbx.DriverPostgres)
	require.NoError(t, err)
	var _ RepositoryManager = m

	_, err = NewBunRepositoryManager("mysql")
	assert.ErrorIs(t, err, dbx.ErrUnsupportedDriver)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	sqldb, _ := newDB(t)
	db := bun.NewDB(sqldb, pgdialect.New())

	m := &BunRepositoryManager{driver: dbx.DriverPostgres}

	u := m.Users(db)
	require.NotNil(t, u)
	var _ users.Repository = u
}

func TestRunMigrations_DirPerDriver(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	tests := []struct {
		driver string
		dir    string
	}{
		{dbx.DriverPostgres, "postgres"},
		{dbx.DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			var gotDir string
			gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				if len(opts) != 0 {
					return errors.New("unexpected opts")
				}
				return nil
			}

			m := &BunRepositoryManager{driver: tt.driver}
			require.NoError(t, m.RunMigrations(context.Background(), db))
			assert.Equal(t, tt.dir, gotDir)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	m := &BunRepositoryManager{driver: dbx.DriverPostgres}
	err := m.RunMigrations(context.Background(), db)
	assert.EqualError(t, err, "boom")
}

func TestRunMigrations_SQLiteForReal(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := &BunRepositoryManager{driver: dbx.DriverSQLite}
	require.NoError(t, m.RunMigrations(ctx, db.DB))

	list, err := m.Users(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
