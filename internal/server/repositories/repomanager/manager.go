package repomanager

import (
	"context"
	"database/sql"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
