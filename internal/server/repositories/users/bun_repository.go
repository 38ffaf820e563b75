// Package users implements the user store on top of bun, shared by the
// PostgreSQL and SQLite dialects.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/models"
)

type BunRepository struct {
	db dbx.DBTX
}

func NewBunRepository(db dbx.DBTX) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)

	err := r.db.NewSelect().Model(&users).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}

	err := r.db.NewSelect().Model(user).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	err := r.db.NewSelect().Model(user).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Create inserts user and fills in the generated id and timestamps.
func (r *BunRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Update writes the named columns of user (all columns when none are given)
// and bumps updated_at.
func (r *BunRepository) Update(ctx context.Context, user *models.User, columns ...string) error {
	user.UpdatedAt = time.Now().UTC()

	q := r.db.NewUpdate().Model(user).WherePK()
	if len(columns) > 0 {
		cols := append(append([]string{}, columns...), "updated_at")
		q = q.Column(cols...)
	} else {
		q = q.ExcludeColumn("id", "created_at")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(res)
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.User)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
