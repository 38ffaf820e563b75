// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *bun.DB and bun.Tx,
// a helper to run functions inside a transaction, and driver selection.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// DBTX is the handle repositories are bound to.
// Both *bun.DB and bun.Tx satisfy this interface.
type DBTX = bun.IDB

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.NewUpdate().Model(u).WherePK().Exec(ctx)
//	    return err
//	})
func WithTx(ctx context.Context, db *bun.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, &tx)
	return err
}

// IsUniqueViolation reports whether err was raised by a UNIQUE constraint in
// PostgreSQL (SQLSTATE 23505) or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ErrUnsupportedDriver is returned by Open for drivers other than pgx and sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// wrapErr keeps the driver name in connection errors.
func wrapErr(driver string, err error) error {
	return fmt.Errorf("%s: %w", driver, err)
}
