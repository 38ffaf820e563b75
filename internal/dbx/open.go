package dbx

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Open connects to the database and wraps it with the matching bun dialect.
// driver is "pgx" for PostgreSQL or "sqlite" for SQLite.
func Open(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	var (
		sqldb *sql.DB
		db    *bun.DB
		err   error
	)

	switch driver {
	case DriverPostgres:
		sqldb, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, wrapErr(driver, err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		sqldb, err = sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, wrapErr(driver, err)
		}
		// a single connection keeps in-memory databases alive and serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, wrapErr(driver, ErrUnsupportedDriver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr(driver, err)
	}

	return db, nil
}

// GooseDialect maps a driver name to the dialect goose expects.
func GooseDialect(driver string) string {
	if driver == DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}
