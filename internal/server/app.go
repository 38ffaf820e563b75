// Package server initializes and runs the account service: it opens the
// database, runs migrations, wires services to the HTTP server and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/mailer"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/config"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/password"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/repomanager"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/services"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/tokenstore"
	"github.com/uptrace/bun"

	hs "github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *bun.DB
	redis  *redis.Client
	mailer *mailer.Async
	server *hs.Server
}

// NewApp opens every backing resource described by c and builds the HTTP
// server. Resources opened before a failure are closed again.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat)

	db, err := dbx.Open(ctx, c.DatabaseDriver, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewBunRepositoryManager(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var tokens tokenstore.Store = tokenstore.NewMemoryStore()
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		tokens = tokenstore.NewRedisStore(app.redis)
	}

	smtp := mailer.NewSMTPMailer(mailer.Config{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		User:     c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}, logger)
	app.mailer = mailer.NewAsync(smtp, logger)

	hasher := password.NewHasher(password.DefaultCost)

	as := services.NewAuthService(db, rm, hasher, app.mailer, tokens, c, logger)
	us := services.NewUserService(db, rm, hasher, logger)

	session := hs.SessionConfig{
		Keys:   c.SigningKeys(),
		TTL:    c.SessionTTL,
		Secure: strings.HasPrefix(c.PublicBaseURL, "https://"),
	}
	app.server = hs.NewServer(c.EndpointAddrHTTP, logger, as, us, session, db)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// drains pending mail and releases resources.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	if app.mailer != nil {
		app.mailer.Close()
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
