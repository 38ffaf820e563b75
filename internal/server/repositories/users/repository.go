package users

import (
	"context"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/models"
)

// Repository is the user store. Lookups that match nothing return
// common.ErrNotFound; other failures are wrapped driver errors.
type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User, columns ...string) error
	Delete(ctx context.Context, id int64) error
}
