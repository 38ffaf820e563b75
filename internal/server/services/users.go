package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/models"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/password"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/repomanager"
	"github.com/uptrace/bun"
)

// CreateInput holds the fields of a directly created user.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// PatchInput holds optional replacements; nil fields are left unchanged.
type PatchInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UserService is the administrative CRUD surface over user records.
type UserService struct {
	db          *bun.DB
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	logger      logging.Logger
}

func NewUserService(db *bun.DB, m repomanager.RepositoryManager, h password.Hasher, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      h,
		logger:      l.With("module", "user_service"),
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, uniqueEmail(err)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Patch applies the non-nil fields of in inside one transaction and returns
// the reloaded row.
func (s *UserService) Patch(ctx context.Context, id int64, in PatchInput) (*models.User, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		var columns []string
		if in.Email != nil {
			user.Email = *in.Email
			columns = append(columns, "email")
		}
		if in.Password != nil {
			hash, err := s.hasher.Hash(*in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.Password = hash
			columns = append(columns, "password")
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
			columns = append(columns, "first_name")
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
			columns = append(columns, "last_name")
		}

		if len(columns) == 0 {
			return nil
		}
		if err := repo.Update(ctx, user, columns...); err != nil {
			return uniqueEmail(notFound(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// notFound replaces the store's bare ErrNotFound with the user-facing error.
func notFound(err error) error {
	if errors.Is(err, common.ErrNotFound) && common.Detail(err) == "" {
		return common.NotFound(msgUserNotFound)
	}
	return err
}

func uniqueEmail(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.Validation(msgEmailTaken).WithCause(err)
	}
	return err
}
