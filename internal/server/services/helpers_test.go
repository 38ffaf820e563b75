package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/mailer"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/config"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/password"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/repomanager"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/users"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/tokenstore"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeMailer struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeMailer) sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.msgs...)
}

// fakeManager hands out a wrapped users repository so tests can inject
// store failures.
type fakeManager struct {
	repomanager.RepositoryManager
	wrap func(users.Repository) users.Repository
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository {
	return m.wrap(m.RepositoryManager.Users(db))
}

type env struct {
	db     *bun.DB
	rm     repomanager.RepositoryManager
	hasher *password.BcryptHasher
	mail   *fakeMailer
	tokens *tokenstore.MemoryStore
	cfg    *config.Config
	auth   *AuthService
	users  *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.SetupSQLite(t)
	rm, err := repomanager.NewBunRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)

	e := &env{
		db:     db,
		rm:     rm,
		hasher: password.NewHasher(bcrypt.MinCost),
		mail:   &fakeMailer{},
		tokens: tokenstore.NewMemoryStore(),
		cfg: &config.Config{
			SecretKey:            testSecret,
			VerificationTokenTTL: time.Hour,
			PublicBaseURL:        "http://localhost:3000/",
		},
	}
	e.build()
	return e
}

func (e *env) build() {
	e.auth = NewAuthService(e.db, e.rm, e.hasher, e.mail, e.tokens, e.cfg, logging.Nop())
	e.users = NewUserService(e.db, e.rm, e.hasher, logging.Nop())
}
